package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/storage"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
)

const (
	testMeta   = `[{"id":"a.jpg","description":"A red barn"},{"id":"b.jpg","description":"A blue lake"},{"id":"c.jpg","description":"A city at night"}]`
	testSphere = `{"a.jpg":[0.1,0.2,0.3],"b.jpg":[0.4,0.5,0.6],"c.jpg":[0.7,0.8,0.9]}`
	testGrid   = `{"a.jpg":[0,0],"b.jpg":[0.5,0.5],"c.jpg":[1,1]}`
)

// fakeDatasets serves datasets from in-memory JSON documents
type fakeDatasets struct {
	mu    sync.Mutex
	docs  map[string]string
	errs  map[string]error
	calls int
}

func newFakeDatasets() *fakeDatasets {
	return &fakeDatasets{
		docs: map[string]string{
			"meta":      testMeta,
			"sphere":    testSphere,
			"umap-grid": testGrid,
		},
		errs: map[string]error{},
	}
}

func (f *fakeDatasets) FetchDataset(ctx context.Context, name string, v any) error {
	f.mu.Lock()
	f.calls++
	doc, ok := f.docs[name]
	err := f.errs[name]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("dataset %s not found", name)
	}
	return json.Unmarshal([]byte(doc), v)
}

func (f *fakeDatasets) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeBackend answers queries with a canned response and describes files through describeFn
type fakeBackend struct {
	mu         sync.Mutex
	queryResp  string
	queryErr   error
	queryFn    func(ctx context.Context, prompt string) (string, error)
	prompts    []string
	describeFn func(ctx context.Context, file models.Upload) (string, error)
	described  []string
}

func (f *fakeBackend) QueryLLM(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	fn, resp, err := f.queryFn, f.queryResp, f.queryErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return resp, err
}

func (f *fakeBackend) GenerateDescription(ctx context.Context, file models.Upload) (string, error) {
	f.mu.Lock()
	f.described = append(f.described, file.Name)
	fn := f.describeFn
	f.mu.Unlock()

	if fn == nil {
		return "Described " + file.Name, nil
	}
	return fn(ctx, file)
}

func newTestExplorer(t *testing.T, backend *fakeBackend, opts Options) (*Explorer, *fakeDatasets) {
	t.Helper()
	if backend == nil {
		backend = &fakeBackend{}
	}
	ds := newFakeDatasets()
	exp := New(store.New(), backend, ds, storage.New("/blobs/"), opts)
	return exp, ds
}

func newLoadedExplorer(t *testing.T, backend *fakeBackend, opts Options) *Explorer {
	t.Helper()
	exp, _ := newTestExplorer(t, backend, opts)
	if err := exp.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return exp
}
