package resumes

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory RecordStore with the same owner-scoping and
// ordering semantics as the PostgreSQL layer.
type fakeStore struct {
	rows map[uuid.UUID]*db.ResumeRow
	now  time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[uuid.UUID]*db.ResumeRow), now: time.Now()}
}

// tick advances the fake clock so updated_at ordering is deterministic.
func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeStore) InsertResume(_ context.Context, r *db.ResumeRow) (*db.ResumeRow, error) {
	stored := *r
	stored.ID = uuid.New()
	stored.CreatedAt = f.tick()
	stored.UpdatedAt = stored.CreatedAt
	f.rows[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeStore) UpdateResume(_ context.Context, id, userID uuid.UUID, title string, content []byte, industry, templateName *string) (*db.ResumeRow, error) {
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	r.Title = title
	r.Content = content
	r.Industry = industry
	r.TemplateName = templateName
	r.UpdatedAt = f.tick()
	out := *r
	return &out, nil
}

func (f *fakeStore) GetResume(_ context.Context, id, userID uuid.UUID) (*db.ResumeRow, error) {
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	out := *r
	return &out, nil
}

func (f *fakeStore) ListResumesByUser(_ context.Context, userID uuid.UUID) ([]db.ResumeRow, error) {
	var out []db.ResumeRow
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeStore) ListVersions(_ context.Context, rootID, userID uuid.UUID) ([]db.ResumeRow, error) {
	var out []db.ResumeRow
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if r.ID == rootID || (r.ParentResumeID != nil && *r.ParentResumeID == rootID) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func testDoc(name, role string) types.ResumeDocument {
	return types.ResumeDocument{
		FullName:   name,
		TargetRole: role,
		Skills:     []string{"Go"},
	}
}

func TestSave_FirstSaveIsVersionOne(t *testing.T) {
	svc := NewService(newFakeStore())
	owner := uuid.New()

	res, err := svc.Save(context.Background(), owner, testDoc("Jane Doe", "Backend Engineer"), SaveOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Record.VersionNumber)
	assert.Nil(t, res.Record.ParentResumeID)
	assert.Equal(t, "Jane Doe - Backend Engineer", res.Record.Title)
	assert.NotEqual(t, uuid.Nil, res.Record.ID)
	assert.Len(t, res.Records, 1)
}

func TestSave_PlainSaveUpdatesInPlace(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	owner := uuid.New()
	ctx := context.Background()

	first, err := svc.Save(ctx, owner, testDoc("Jane", "Engineer"), SaveOptions{})
	require.NoError(t, err)

	second, err := svc.Save(ctx, owner, testDoc("Jane", "Staff Engineer"), SaveOptions{CurrentID: first.Record.ID})
	require.NoError(t, err)

	assert.Equal(t, first.Record.ID, second.Record.ID, "plain save must not create a record")
	assert.Equal(t, 1, second.Record.VersionNumber, "version untouched by in-place update")
	assert.Nil(t, second.Record.ParentResumeID)
	assert.Equal(t, "Jane - Staff Engineer", second.Record.Title)
	assert.Len(t, second.Records, 1)
}

func TestSave_NewVersionChainsToParent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	owner := uuid.New()
	ctx := context.Background()

	first, err := svc.Save(ctx, owner, testDoc("Jane", "Engineer"), SaveOptions{})
	require.NoError(t, err)

	second, err := svc.Save(ctx, owner, testDoc("Jane", "Engineer"), SaveOptions{
		CurrentID:    first.Record.ID,
		AsNewVersion: true,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Record.ID, second.Record.ID)
	assert.Equal(t, 2, second.Record.VersionNumber)
	require.NotNil(t, second.Record.ParentResumeID)
	assert.Equal(t, first.Record.ID, *second.Record.ParentResumeID)

	// Parent's own version number is unchanged
	parent, err := svc.Load(ctx, owner, first.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, parent.VersionNumber)

	assert.Len(t, second.Records, 2)
	assert.Equal(t, second.Record.ID, second.Records[0].ID, "list is newest-first")
}

func TestSave_NotSignedIn(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.Save(context.Background(), uuid.Nil, testDoc("Jane", "Engineer"), SaveOptions{})

	var notSignedIn *ErrNotSignedIn
	require.ErrorAs(t, err, &notSignedIn)
	assert.Empty(t, store.rows, "operation must be a no-op")
}

func TestSave_UnknownCurrentID(t *testing.T) {
	svc := NewService(newFakeStore())
	owner := uuid.New()

	_, err := svc.Save(context.Background(), owner, testDoc("Jane", "Engineer"), SaveOptions{CurrentID: uuid.New()})

	var notFound *ErrRecordNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestSave_TitleFallbacks(t *testing.T) {
	svc := NewService(newFakeStore())
	owner := uuid.New()

	res, err := svc.Save(context.Background(), owner, types.ResumeDocument{}, SaveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled - Resume", res.Record.Title)
}

func TestListVersions_OneLevelOnly(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	owner := uuid.New()
	ctx := context.Background()

	root, err := svc.Save(ctx, owner, testDoc("Jane", "Engineer"), SaveOptions{})
	require.NoError(t, err)

	child, err := svc.Save(ctx, owner, testDoc("Jane", "Engineer"), SaveOptions{
		CurrentID: root.Record.ID, AsNewVersion: true,
	})
	require.NoError(t, err)

	// Grandchild chained to the child, two generations from the root
	grandchild, err := svc.Save(ctx, owner, testDoc("Jane", "Engineer"), SaveOptions{
		CurrentID: child.Record.ID, AsNewVersion: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, grandchild.Record.VersionNumber)

	versions, err := svc.ListVersions(ctx, owner, root.Record.ID)
	require.NoError(t, err)

	require.Len(t, versions, 2, "root plus immediate children only")
	assert.Equal(t, child.Record.ID, versions[0].ID, "version_number descending")
	assert.Equal(t, root.Record.ID, versions[1].ID)
	for _, v := range versions {
		if v.ParentResumeID != nil {
			assert.Equal(t, root.Record.ID, *v.ParentResumeID)
		}
	}
}

func TestLoad_WrongOwnerIsNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	owner := uuid.New()
	stranger := uuid.New()
	ctx := context.Background()

	saved, err := svc.Save(ctx, owner, testDoc("Jane", "Engineer"), SaveOptions{})
	require.NoError(t, err)

	_, err = svc.Load(ctx, stranger, saved.Record.ID)
	var notFound *ErrRecordNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestLoad_RoundTripsDocument(t *testing.T) {
	svc := NewService(newFakeStore())
	owner := uuid.New()
	ctx := context.Background()

	doc := testDoc("Jane", "Engineer")
	doc.Experience = []types.ExperienceEntry{{
		Title: "SRE", Company: "Acme", StartDate: "2021-01",
		BulletPoints: []string{"ran the fleet"},
	}}

	saved, err := svc.Save(ctx, owner, doc, SaveOptions{Industry: "tech", TemplateName: "Technology"})
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, owner, saved.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded.Content)
	assert.Equal(t, "tech", loaded.Industry)
	assert.Equal(t, "Technology", loaded.TemplateName)
}

func TestSave_StoreFailureIsRecoverable(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	owner := uuid.New()
	ctx := context.Background()

	saved, err := svc.Save(ctx, owner, testDoc("Jane", "Engineer"), SaveOptions{})
	require.NoError(t, err)

	// Corrupt the stored content to force a decode failure on load
	store.rows[saved.Record.ID].Content = json.RawMessage(`{broken`)
	_, err = svc.Load(ctx, owner, saved.Record.ID)
	assert.Error(t, err)

	// Repair and retry: state was not corrupted further
	store.rows[saved.Record.ID].Content, _ = json.Marshal(testDoc("Jane", "Engineer"))
	_, err = svc.Load(ctx, owner, saved.Record.ID)
	assert.NoError(t, err)
}
