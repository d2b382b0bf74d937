package services

import (
	"context"
	"sync"

	"github.com/krshsl/admitwise/backend/models"
)

const testStudentID = "6f1c2a4e-8d3b-4f5a-9c7e-1b2d3e4f5a6b"

func studentCtx() context.Context {
	return WithStudentID(context.Background(), testStudentID)
}

type fakeDocumentStore struct {
	saved   []*models.ParsedDocument
	saveErr error
	listErr error
	stats   *models.DocumentStats
}

func (f *fakeDocumentStore) SaveParsedDocument(ctx context.Context, doc *models.ParsedDocument) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, doc)
	return nil
}

func (f *fakeDocumentStore) ListParsedDocuments(ctx context.Context, studentID string, limit int) ([]models.ParsedDocument, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var docs []models.ParsedDocument
	for i := len(f.saved) - 1; i >= 0 && len(docs) < limit; i-- {
		if f.saved[i].StudentID == studentID {
			docs = append(docs, *f.saved[i])
		}
	}
	return docs, nil
}

func (f *fakeDocumentStore) GetParsedDocument(ctx context.Context, studentID, documentID string) (*models.ParsedDocument, error) {
	for _, d := range f.saved {
		if d.ID == documentID && d.StudentID == studentID {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentStore) GetDocumentStats(ctx context.Context, studentID string) (*models.DocumentStats, error) {
	if f.stats != nil {
		return f.stats, nil
	}
	return &models.DocumentStats{TotalDocuments: int64(len(f.saved)), ByType: map[string]int64{}}, nil
}

type fakeProfileStore struct {
	profiles  map[string]*models.StudentProfile
	getErr    error
	upsertErr error
	upserts   int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[string]*models.StudentProfile{}}
}

func (f *fakeProfileStore) GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.profiles[studentID], nil
}

func (f *fakeProfileStore) UpsertStudentProfile(ctx context.Context, p *models.StudentProfile) error {
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.profiles[p.StudentID] = p
	return nil
}

type sentEvent struct {
	studentID string
	event     string
	payload   any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeNotifier) Notify(studentID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{studentID: studentID, event: event, payload: payload})
}

type fakeSource struct {
	universities []models.University
	err          error
	calls        int
}

func (f *fakeSource) FetchUniversities(ctx context.Context) ([]models.University, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.universities, nil
}

type fakeUniversityStore struct {
	universities []models.University
	countErr     error
	createErr    error
	creates      int
}

func (f *fakeUniversityStore) ListUniversities(ctx context.Context, limit int) ([]models.University, error) {
	if limit > 0 && limit < len(f.universities) {
		return f.universities[:limit], nil
	}
	return f.universities, nil
}

func (f *fakeUniversityStore) CountUniversities(ctx context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.universities)), nil
}

func (f *fakeUniversityStore) CreateUniversities(ctx context.Context, universities []models.University) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	f.universities = append(f.universities, universities...)
	return nil
}
