package jsonapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/storage"
	"evalgo.org/modelapi/models"
)

func newTestAdapter(t *testing.T, kc KeyCase) *Adapter {
	t.Helper()

	article := models.Definition{
		Type:       "article",
		Attributes: []string{"title", "createdAt"},
		Relationships: map[string]models.RelationshipDefinition{
			"author":      {Cardinality: models.One, Entity: "people"},
			"relatedTags": {Cardinality: models.Many, Entity: "tags"},
		},
	}
	people := models.Definition{Type: "people", Attributes: []string{"name"}}

	reg, err := models.NewRegistry(append(models.Builtin(), article, people)...)
	require.NoError(t, err)
	return NewAdapter(reg, kc)
}

var testLinks = LinkBuilder{Origin: "http://example.com", BasePath: "/api/rest", RequestPath: "/organization/o1"}

func TestLinkBuilder(t *testing.T) {
	assert.Equal(t, "http://example.com/api/rest/organization/o1", testLinks.Self())
	assert.Equal(t, "http://example.com/api/rest/tags/t1", testLinks.Resource("tags", "t1"))
	assert.Equal(t, "http://example.com/api/rest/organization/o1/relationships/tags", testLinks.RelationshipSelf("organization", "o1", "tags"))
	assert.Equal(t, "http://example.com/api/rest/organization/o1/tags", testLinks.Related("organization", "o1", "tags"))
}

func TestAdapter_UnknownType(t *testing.T) {
	a := newTestAdapter(t, CamelCase)

	_, err := a.SerializerFor("widgets", testLinks)
	assert.True(t, apierr.Is(err, apierr.KindNotFound))

	_, err = a.DeserializerFor("widgets")
	assert.True(t, apierr.Is(err, apierr.KindNotFound))
}

func TestSerializer_One(t *testing.T) {
	a := newTestAdapter(t, CamelCase)
	s, err := a.SerializerFor("organization", testLinks)
	require.NoError(t, err)

	doc := s.One(storage.Record{
		ID: "o1",
		Values: map[string]interface{}{
			"name":        "Acme",
			"description": nil,
			"secret":      "not declared",
			"tags":        []interface{}{Ref("tags", "t1"), Ref("tags", "t2")},
		},
	})

	assert.Equal(t, "http://example.com/api/rest/organization/o1", doc.Links.Self)

	res := doc.Data.(*Resource)
	assert.Equal(t, "organization", res.Type)
	assert.Equal(t, "o1", res.ID)
	assert.Equal(t, map[string]interface{}{"name": "Acme"}, res.Attributes)
	assert.Equal(t, "http://example.com/api/rest/organization/o1", res.Links.Self)

	tags := res.Relationships["tags"]
	require.NotNil(t, tags)
	assert.Equal(t, []*Identifier{{Type: "tags", ID: "t1"}, {Type: "tags", ID: "t2"}}, tags.Data)
	assert.Equal(t, "http://example.com/api/rest/organization/o1/relationships/tags", tags.Links.Self)
	assert.Equal(t, "http://example.com/api/rest/organization/o1/tags", tags.Links.Related)
}

func TestSerializer_RelationshipEdgeCases(t *testing.T) {
	a := newTestAdapter(t, DashCase)
	s, err := a.SerializerFor("article", testLinks)
	require.NoError(t, err)

	res := s.Resource(storage.Record{
		ID: "a1",
		Values: map[string]interface{}{
			"title":       "Hello",
			"createdAt":   "2024-01-01",
			"author":      nil,
			"relatedTags": []interface{}{},
		},
	})

	assert.Equal(t, map[string]interface{}{"title": "Hello", "created-at": "2024-01-01"}, res.Attributes)
	assert.NotContains(t, res.Relationships, "author", "null one-relationships are omitted")

	related := res.Relationships["related-tags"]
	require.NotNil(t, related)
	assert.Equal(t, []*Identifier{}, related.Data)
	assert.Equal(t, "http://example.com/api/rest/article/a1/relationships/relatedTags", related.Links.Self)

	res = s.Resource(storage.Record{
		ID:     "a2",
		Values: map[string]interface{}{"author": map[string]interface{}{"id": "p1"}},
	})
	assert.Nil(t, res.Attributes)
	assert.Equal(t, &Identifier{Type: "people", ID: "p1"}, res.Relationships["author"].Data)
}

func TestSerializer_ManyAndEmpty(t *testing.T) {
	a := newTestAdapter(t, CamelCase)
	s, err := a.SerializerFor("tags", LinkBuilder{Origin: "http://example.com", BasePath: "/api/rest", RequestPath: "/tags"})
	require.NoError(t, err)

	doc := s.Many(nil)
	assert.Equal(t, []*Resource{}, doc.Data)
	assert.Equal(t, "http://example.com/api/rest/tags", doc.Links.Self)

	doc = s.Many([]storage.Record{{ID: "t1", Values: map[string]interface{}{"name": "go"}}})
	require.Len(t, doc.Data, 1)

	assert.Nil(t, s.Empty(models.One).Data)
	assert.Equal(t, []*Resource{}, s.Empty(models.Many).Data)

	raw, err := json.Marshal(s.Empty(models.One))
	require.NoError(t, err)
	assert.JSONEq(t, `{"links":{"self":"http://example.com/api/rest/tags"},"data":null}`, string(raw))
}

func TestDeserializer_Deserialize(t *testing.T) {
	a := newTestAdapter(t, SnakeCase)
	d, err := a.DeserializerFor("article")
	require.NoError(t, err)

	out, err := d.Deserialize([]byte(`{
		"data": {
			"type": "article",
			"attributes": {"title": "Hello", "created_at": "2024-01-01", "extra": 1},
			"relationships": {
				"author": {"data": {"type": "people", "id": "p1"}},
				"related_tags": [{"type": "tags", "id": "t1"}, {"type": "tags", "id": null}, {"id": 7}]
			}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Hello", out["title"])
	assert.Equal(t, "2024-01-01", out["createdAt"])
	assert.Equal(t, float64(1), out["extra"])
	assert.Equal(t, Ref("people", "p1"), out["author"])
	assert.Equal(t, []interface{}{Ref("tags", "t1"), nil, Ref("tags", "7")}, out["relatedTags"])
}

func TestDeserializer_NullLinkage(t *testing.T) {
	a := newTestAdapter(t, CamelCase)
	d, err := a.DeserializerFor("article")
	require.NoError(t, err)

	out, err := d.Deserialize([]byte(`{"data":{"type":"article","relationships":{"author":{"data":null}}}}`))
	require.NoError(t, err)
	assert.Contains(t, out, "author")
	assert.Nil(t, out["author"])
}

func TestDeserializer_Errors(t *testing.T) {
	a := newTestAdapter(t, CamelCase)
	d, err := a.DeserializerFor("organization")
	require.NoError(t, err)

	_, err = d.Deserialize([]byte(`{"data":`))
	assert.True(t, apierr.Is(err, apierr.KindBadRequest))

	_, err = d.Deserialize([]byte(`{"meta":{}}`))
	assert.True(t, apierr.Is(err, apierr.KindBadRequest))
}
