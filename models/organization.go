package models

// Organization is a company or group profile that can be tagged.
var Organization = Definition{
	Type:       "organization",
	Attributes: []string{"name", "description", "body"},
	Relationships: map[string]RelationshipDefinition{
		"tags": {Cardinality: Many, Entity: "tags"},
	},
}
