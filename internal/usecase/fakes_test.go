package usecase

import (
	"context"
	"os"
	"sync"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

type fakeExtractor struct {
	text     string
	err      error
	gotPath  string
	gotBytes []byte
}

func (f *fakeExtractor) ExtractPath(_ context.Context, _ string, path string) (string, error) {
	f.gotPath = path
	f.gotBytes, _ = os.ReadFile(path)
	return f.text, f.err
}

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeVideos struct {
	video domain.VideoMetadata
	err   error
	calls int
}

func (f *fakeVideos) Video(_ context.Context, id string) (domain.VideoMetadata, error) {
	f.calls++
	if f.err != nil {
		return domain.VideoMetadata{}, f.err
	}
	v := f.video
	v.ID = id
	return v, nil
}

type fakeJobs struct {
	result      domain.JobSearchResult
	categories  []domain.Category
	err         error
	searchCalls int
	catCalls    int
	lastQuery   domain.JobQuery
}

func (f *fakeJobs) Search(_ context.Context, q domain.JobQuery) (domain.JobSearchResult, error) {
	f.searchCalls++
	f.lastQuery = q
	return f.result, f.err
}

func (f *fakeJobs) Categories(_ context.Context) ([]domain.Category, error) {
	f.catCalls++
	return f.categories, f.err
}
