package resource

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/jsonapi"
	"evalgo.org/modelapi/internal/logging"
	"evalgo.org/modelapi/internal/storage"
	"evalgo.org/modelapi/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) actions() []EventAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventAction, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

type fixture struct {
	svc       *Service
	store     *storage.MemoryStore
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	article := models.Definition{
		Type:       "article",
		Attributes: []string{"title"},
		Relationships: map[string]models.RelationshipDefinition{
			"author": {Cardinality: models.One, Entity: "tags"},
			"broken": {Cardinality: "several", Entity: "tags"},
		},
	}
	reg, err := models.NewRegistry(append(models.Builtin(), article)...)
	require.NoError(t, err)

	store := storage.NewMemoryStore()
	pub := &recordingPublisher{}
	svc := NewService(reg, store, jsonapi.NewAdapter(reg, jsonapi.CamelCase), pub, logging.Discard())
	return &fixture{svc: svc, store: store, publisher: pub}
}

func links(path string) jsonapi.LinkBuilder {
	return jsonapi.LinkBuilder{Origin: "http://example.com", BasePath: "/api/rest", RequestPath: path}
}

func resourceOf(t *testing.T, doc *jsonapi.Document) *jsonapi.Resource {
	t.Helper()
	res, ok := doc.Data.(*jsonapi.Resource)
	require.True(t, ok, "data is %T", doc.Data)
	return res
}

func kindOf(t *testing.T, err error, kind apierr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apierr.KindOf(err), err.Error())
}

func TestService_CreateProjectsAttributes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, "organization", []byte(`{
		"data": {"type": "organization", "attributes": {"name": "Acme", "unknown": "dropped"}}
	}`), links("/organization"))
	require.NoError(t, err)

	res := resourceOf(t, doc)
	require.NotEmpty(t, res.ID)
	assert.Equal(t, map[string]interface{}{"name": "Acme"}, res.Attributes)
	assert.Equal(t, []*jsonapi.Identifier{}, res.Relationships["tags"].Data)

	stored, err := f.store.Collection("organization").FindByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"name":        "Acme",
		"description": nil,
		"body":        nil,
		"tags":        []interface{}{},
	}, stored.Values)

	again, err := f.svc.Retrieve(ctx, "organization", res.ID, links("/organization/"+res.ID))
	require.NoError(t, err)
	assert.Equal(t, res.ID, resourceOf(t, again).ID)
	assert.Equal(t, res.Attributes, resourceOf(t, again).Attributes)

	assert.Equal(t, []EventAction{EventCreated}, f.publisher.actions())
}

func TestService_CreateRejectsClientID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "organization",
		[]byte(`{"data":{"type":"organization","id":"mine","attributes":{"name":"Acme"}}}`), links("/organization"))
	kindOf(t, err, apierr.KindBadRequest)

	recs, err := f.store.Collection("organization").Find(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Empty(t, f.publisher.actions())
}

func TestService_CreateNormalizesRelationships(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, "organization", []byte(`{
		"data": {"type": "organization", "relationships": {"tags": {"data": {"type": "tags", "id": "t1"}}}}
	}`), links("/organization"))
	require.NoError(t, err)
	id := resourceOf(t, doc).ID

	stored, err := f.store.Collection("organization").FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{jsonapi.Ref("tags", "t1")}, stored.Values["tags"])

	doc, err = f.svc.Create(ctx, "article", []byte(`{
		"data": {"type": "article", "relationships": {"author": {"data": [null, {"type": "tags", "id": "a1"}, {"type": "tags", "id": "a2"}]}}}
	}`), links("/article"))
	require.NoError(t, err)
	stored, err = f.store.Collection("article").FindByID(ctx, resourceOf(t, doc).ID)
	require.NoError(t, err)
	assert.Equal(t, jsonapi.Ref("tags", "a1"), stored.Values["author"])
	assert.NotContains(t, stored.Values, "broken")
}

func TestService_UpdateMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Collection("organization").Insert(ctx, map[string]interface{}{
		"name":        "Acme",
		"description": "Widgets",
		"body":        nil,
		"tags":        []interface{}{jsonapi.Ref("tags", "t1")},
	})
	require.NoError(t, err)

	body := []byte(`{"data":{"type":"organization","id":"` + id + `","attributes":{"description":null,"body":"Hello"}}}`)

	doc, err := f.svc.Update(ctx, "organization", id, body, links("/organization/"+id))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "Acme", "body": "Hello"}, resourceOf(t, doc).Attributes)

	first, err := f.store.Collection("organization").FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", first.Values["name"], "omitted attribute untouched")
	assert.Nil(t, first.Values["description"], "explicit null clears")
	assert.Equal(t, []interface{}{jsonapi.Ref("tags", "t1")}, first.Values["tags"], "omitted relationship untouched")

	_, err = f.svc.Update(ctx, "organization", id, body, links("/organization/"+id))
	require.NoError(t, err)
	second, err := f.store.Collection("organization").FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, second, "update is idempotent")

	assert.Equal(t, []EventAction{EventUpdated, EventUpdated}, f.publisher.actions())
}

func TestService_UpdateRejectsMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Collection("organization").Insert(ctx, map[string]interface{}{"name": "Acme"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "organization", id,
		[]byte(`{"data":{"type":"organization","id":"other","attributes":{"name":"Changed"}}}`), links("/organization/"+id))
	kindOf(t, err, apierr.KindBadRequest)

	_, err = f.svc.Update(ctx, "organization", id,
		[]byte(`{"data":{"type":"tags","id":"`+id+`","attributes":{"name":"Changed"}}}`), links("/organization/"+id))
	kindOf(t, err, apierr.KindBadRequest)

	_, err = f.svc.Update(ctx, "organization", id,
		[]byte(`{"data":{"type":"organization","attributes":{"name":"Changed"}}}`), links("/organization/"+id))
	kindOf(t, err, apierr.KindBadRequest)

	rec, err := f.store.Collection("organization").FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.Values["name"])
	assert.Empty(t, f.publisher.actions())
}

func TestService_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Retrieve(ctx, "organization", "missing", links("/organization/missing"))
	kindOf(t, err, apierr.KindNotFound)

	_, err = f.svc.Update(ctx, "organization", "missing",
		[]byte(`{"data":{"type":"organization","id":"missing"}}`), links("/organization/missing"))
	kindOf(t, err, apierr.KindNotFound)

	kindOf(t, f.svc.Delete(ctx, "organization", "missing"), apierr.KindNotFound)
	kindOf(t, f.svc.Delete(ctx, "widgets", "missing"), apierr.KindNotFound)

	_, err = f.svc.List(ctx, "widgets", nil, links("/widgets"))
	kindOf(t, err, apierr.KindNotFound)
}

func TestService_DeleteAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	coll := f.store.Collection("tags")
	first, _ := coll.Insert(ctx, map[string]interface{}{"name": "go"})
	_, _ = coll.Insert(ctx, map[string]interface{}{"name": "rust"})

	doc, err := f.svc.List(ctx, "tags", nil, links("/tags"))
	require.NoError(t, err)
	assert.Len(t, doc.Data, 2)

	doc, err = f.svc.List(ctx, "tags", &storage.Page{Limit: 1, Offset: 1}, links("/tags"))
	require.NoError(t, err)
	data := doc.Data.([]*jsonapi.Resource)
	require.Len(t, data, 1)
	assert.Equal(t, "rust", data[0].Attributes["name"])

	require.NoError(t, f.svc.Delete(ctx, "tags", first))
	_, err = f.svc.Retrieve(ctx, "tags", first, links("/tags/"+first))
	kindOf(t, err, apierr.KindNotFound)

	assert.Equal(t, []EventAction{EventDeleted}, f.publisher.actions())
}

func TestService_RelatedMany(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tags := f.store.Collection("tags")
	t1, _ := tags.Insert(ctx, map[string]interface{}{"name": "go"})
	t2, _ := tags.Insert(ctx, map[string]interface{}{"name": "rust"})

	orgs := f.store.Collection("organization")
	withTags, _ := orgs.Insert(ctx, map[string]interface{}{
		"name": "Acme",
		"tags": []interface{}{jsonapi.Ref("tags", t2), jsonapi.Ref("tags", "gone"), jsonapi.Ref("tags", t1)},
	})
	without, _ := orgs.Insert(ctx, map[string]interface{}{"name": "Empty", "tags": []interface{}{}})

	doc, err := f.svc.Related(ctx, "organization", withTags, "tags", links("/organization/"+withTags+"/relationships/tags"))
	require.NoError(t, err)
	data := doc.Data.([]*jsonapi.Resource)
	require.Len(t, data, 2)
	assert.Equal(t, "tags", data[0].Type)
	assert.ElementsMatch(t, []string{t1, t2}, []string{data[0].ID, data[1].ID})

	doc, err = f.svc.Related(ctx, "organization", without, "tags", links("/organization/"+without+"/relationships/tags"))
	require.NoError(t, err)
	assert.Equal(t, []*jsonapi.Resource{}, doc.Data)
}

func TestService_RelatedOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	authorID, _ := f.store.Collection("tags").Insert(ctx, map[string]interface{}{"name": "author"})
	articles := f.store.Collection("article")
	withAuthor, _ := articles.Insert(ctx, map[string]interface{}{"author": jsonapi.Ref("tags", authorID)})
	noAuthor, _ := articles.Insert(ctx, map[string]interface{}{"author": nil})

	doc, err := f.svc.Related(ctx, "article", withAuthor, "author", links("/article/"+withAuthor+"/relationships/author"))
	require.NoError(t, err)
	assert.Equal(t, authorID, resourceOf(t, doc).ID)

	doc, err = f.svc.Related(ctx, "article", noAuthor, "author", links("/article/"+noAuthor+"/relationships/author"))
	require.NoError(t, err)
	assert.Nil(t, doc.Data)

	// A deleted target is a dangling reference, not an error.
	require.NoError(t, f.store.Collection("tags").Remove(ctx, authorID))
	doc, err = f.svc.Related(ctx, "article", withAuthor, "author", links("/article/"+withAuthor+"/relationships/author"))
	require.NoError(t, err)
	assert.Nil(t, doc.Data)
}

func TestService_RelatedErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, _ := f.store.Collection("article").Insert(ctx, map[string]interface{}{})

	_, err := f.svc.Related(ctx, "article", id, "nope", links("/"))
	kindOf(t, err, apierr.KindBadRequest)

	_, err = f.svc.Related(ctx, "article", id, "broken", links("/"))
	kindOf(t, err, apierr.KindInternal)

	_, err = f.svc.Related(ctx, "article", "missing", "author", links("/"))
	kindOf(t, err, apierr.KindNotFound)

	_, err = f.svc.Related(ctx, "widgets", id, "author", links("/"))
	kindOf(t, err, apierr.KindNotFound)
}

func TestService_MutateRelationship(t *testing.T) {
	f := newFixture(t)
	kindOf(t, f.svc.MutateRelationship(context.Background(), "organization", "x", "tags"), apierr.KindNotImplemented)
}

func TestService_Types(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, map[string]string{
		"article":      "http://example.com/api/rest/article",
		"organization": "http://example.com/api/rest/organization",
		"tags":         "http://example.com/api/rest/tags",
	}, f.svc.Types(links("/types")))
}
