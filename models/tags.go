package models

// Tags are free-form labels attached to other resources.
var Tags = Definition{
	Type:       "tags",
	Attributes: []string{"name", "description"},
}

// Builtin returns the definitions compiled into the server.
func Builtin() []Definition {
	return []Definition{Organization, Tags}
}
