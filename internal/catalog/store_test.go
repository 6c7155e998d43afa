package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/catalog-search/internal/search"
)

func testRecords() []search.Record {
	return []search.Record{
		{ID: 1, Title: "碳中和预测实验", Category: search.CategoryExperiment, TargetURL: "/experiments/1", Tags: []string{"碳中和", "预测"}},
		{ID: 2, Title: "Carbon Accounting Basics", Description: "greenhouse gas inventories", Category: search.CategoryCourse, Tags: []string{"carbon"}},
		{ID: 3, Title: "Global emission dataset", Description: "1990-2024", Category: search.CategoryDataset, Keywords: []string{"CO2"}},
		{ID: 4, Title: "Policy news: carbon market expands", Category: search.CategoryNews, Tags: []string{"policy", "carbon"}},
	}
}

const sampleYAML = `records:
  - id: 1
    title: 碳中和预测实验
    category: experiment
    target_url: /experiments/1
    tags: [碳中和, 预测]
  - id: 2
    title: Carbon Accounting Basics
    category: course
    keywords:
      - carbon accounting
`

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	store, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, store.Count())

	rec, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "碳中和预测实验", rec.Title)
	assert.Equal(t, search.CategoryExperiment, rec.Category)
	assert.Equal(t, []string{"碳中和", "预测"}, rec.Tags)
	assert.Nil(t, rec.Keywords)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	body := `{"records": [{"id": 7, "title": "Solar atlas", "category": "dataset", "tags": ["solar"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	store, err := Load(path)
	require.NoError(t, err)

	rec, err := store.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "Solar atlas", rec.Title)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "none.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("records: [unterminated"), 0644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse catalog")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		path := filepath.Join(dir, "dup.yaml")
		body := "records:\n  - {id: 1, title: a, category: news}\n  - {id: 1, title: b, category: news}\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := Load(path)
		assert.ErrorIs(t, err, search.ErrDuplicateID)
	})

	t.Run("unknown category", func(t *testing.T) {
		path := filepath.Join(dir, "cat.yaml")
		body := "records:\n  - {id: 1, title: a, category: podcast}\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := Load(path)
		assert.ErrorIs(t, err, search.ErrUnknownCategory)
	})
}

func TestStore_RecordsIsCopy(t *testing.T) {
	store := NewStore(testRecords())

	got := store.Records()
	got[0].Title = "changed"

	rec, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "碳中和预测实验", rec.Title)
}

func TestStore_AddRemove(t *testing.T) {
	store := NewStore(testRecords())

	require.NoError(t, store.Add(search.Record{ID: 9, Title: "New", Category: search.CategoryArticle}))
	assert.Equal(t, 5, store.Count())
	assert.Equal(t, 10, store.NextID())

	err := store.Add(search.Record{ID: 9, Title: "Again", Category: search.CategoryArticle})
	assert.ErrorIs(t, err, search.ErrDuplicateID)

	err = store.Add(search.Record{ID: 10, Title: " ", Category: search.CategoryArticle})
	assert.ErrorIs(t, err, search.ErrEmptyTitle)

	require.NoError(t, store.Remove(2))
	assert.Equal(t, 4, store.Count())

	ids := []int{}
	for _, r := range store.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{1, 3, 4, 9}, ids)

	assert.ErrorIs(t, store.Remove(2), ErrRecordNotFound)
	_, err = store.Get(2)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestStore_NextIDEmpty(t *testing.T) {
	assert.Equal(t, 1, NewStore(nil).NextID())
}

func TestStore_SaveRoundTrip(t *testing.T) {
	for _, name := range []string{"catalog.yaml", "catalog.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			require.NoError(t, NewStore(testRecords()).Save(path))

			_, err := os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, testRecords(), loaded.Records())
		})
	}
}

func TestStore_MarshalEmpty(t *testing.T) {
	data, err := NewStore(nil).Marshal(FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"records": []}`, string(data))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore(testRecords())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			_ = store.Add(search.Record{ID: 100 + id, Title: "t", Category: search.CategoryNews})
		}(i)
		go func() {
			defer wg.Done()
			_ = search.Search("carbon", store.Records())
		}()
	}
	wg.Wait()

	assert.Equal(t, 12, store.Count())
}
