package overlay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/commentdesk/internal/api"
)

// memKV is an in-memory KV that counts writes.
type memKV struct {
	data    map[string]string
	sets    int
	removes int
	failSet error
	failGet error
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(key string) (string, bool, error) {
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memKV) Remove(key string) error {
	m.removes++
	delete(m.data, key)
	return nil
}

var ann = api.Comment{ID: 1, PostID: 5, Name: "Ann", Email: "a@x.com", Body: "hi"}

func TestOverlay_ApplyWithoutEntryIsIdentity(t *testing.T) {
	ov := Overlay{2: Fields{}.with(FieldName, "Other")}
	assert.Equal(t, ann, ov.Apply(ann))
}

func TestOverlay_ApplyReplacesOnlyNamedFields(t *testing.T) {
	ov := Overlay{}.With(1, FieldName, "Annie")
	got := ov.Apply(ann)
	assert.Equal(t, "Annie", got.Name)
	assert.Equal(t, ann.Body, got.Body)
	assert.Equal(t, ann.Email, got.Email)
	assert.Equal(t, ann.PostID, got.PostID)
}

func TestOverlay_EmptyStringIsAnOverride(t *testing.T) {
	ov := Overlay{}.With(1, FieldBody, "")
	assert.Equal(t, "", ov.Apply(ann).Body)
	assert.True(t, ov.Has(1))
}

func TestOverlay_WithDoesNotMutateReceiver(t *testing.T) {
	base := Overlay{}.With(1, FieldName, "A")
	next := base.With(1, FieldBody, "B")

	_, ok := base.Value(1, FieldBody)
	assert.False(t, ok)
	v, ok := next.Value(1, FieldName)
	assert.True(t, ok)
	assert.Equal(t, "A", v)
}

func TestStore_SetFieldPersistsFullBlob(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, "", nil)
	s.Load()

	ov, changed, err := s.SetField(ann, FieldName, "Annie")
	require.NoError(t, err)
	assert.True(t, changed)
	v, _ := ov.Value(1, FieldName)
	assert.Equal(t, "Annie", v)
	assert.Equal(t, 1, kv.sets)
	assert.JSONEq(t, `{"1":{"name":"Annie"}}`, kv.data[DefaultKey])

	_, _, err = s.SetField(api.Comment{ID: 2, Name: "Bob"}, FieldBody, "new")
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":{"name":"Annie"},"2":{"body":"new"}}`, kv.data[DefaultKey])
}

func TestStore_SetFieldSameValueIsNoop(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, "", nil)
	s.Load()

	_, changed, err := s.SetField(ann, FieldName, "Annie")
	require.NoError(t, err)
	require.True(t, changed)

	before := s.Current()
	ov, changed, err := s.SetField(ann, FieldName, "Annie")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, ov)
	assert.Equal(t, 1, kv.sets)
}

func TestStore_SetFieldToBaselineValueIsNoop(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, "", nil)

	_, changed, err := s.SetField(ann, FieldName, "Ann")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, kv.sets)
	assert.Empty(t, s.Current())
}

func TestStore_SetFieldRejectsNonEditable(t *testing.T) {
	s := NewStore(newMemKV(), "", nil)

	_, _, err := s.SetField(ann, FieldEmail, "z@x.com")
	assert.ErrorIs(t, err, ErrNotEditable)

	_, _, err = s.SetField(ann, Field("title"), "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestStore_SetFieldWriteFailureKeepsEdit(t *testing.T) {
	kv := newMemKV()
	kv.failSet = errors.New("disk full")
	s := NewStore(kv, "", nil)

	ov, changed, err := s.SetField(ann, FieldName, "Annie")
	require.Error(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Annie", ov.Apply(ann).Name)
}

func TestStore_LoadRoundTrip(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, "", nil)
	s.Load()
	_, _, err := s.SetField(ann, FieldName, "Annie")
	require.NoError(t, err)
	_, _, err = s.SetField(ann, FieldBody, "hello")
	require.NoError(t, err)

	reloaded := NewStore(kv, "", nil).Load()
	assert.Equal(t, s.Current(), reloaded)
}

func TestStore_LoadFailsSoft(t *testing.T) {
	cases := map[string]func(kv *memKV){
		"absent":      func(kv *memKV) {},
		"garbage":     func(kv *memKV) { kv.data[DefaultKey] = "{not json" },
		"wrong shape": func(kv *memKV) { kv.data[DefaultKey] = `[1,2,3]` },
		"null":        func(kv *memKV) { kv.data[DefaultKey] = `null` },
		"read error":  func(kv *memKV) { kv.failGet = errors.New("io") },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			kv := newMemKV()
			setup(kv)
			ov := NewStore(kv, "", nil).Load()
			assert.NotNil(t, ov)
			assert.Empty(t, ov)
		})
	}
}

func TestStore_ResetRemovesKey(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, "", nil)
	_, _, err := s.SetField(ann, FieldName, "Annie")
	require.NoError(t, err)

	ov, err := s.Reset()
	require.NoError(t, err)
	assert.Empty(t, ov)
	assert.Equal(t, 1, kv.removes)
	_, ok := kv.data[DefaultKey]
	assert.False(t, ok)
	assert.Empty(t, NewStore(kv, "", nil).Load())
}
