package models

// SourceTopRequest is the per-source listing query.
type SourceTopRequest struct {
	Source string `param:"source" validate:"required"`
	Limit  int    `query:"limit" default:"5" validate:"gte=1,lte=50"`
}
