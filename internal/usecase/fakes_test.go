package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/GoArmGo/CohortApp/internal/messaging/payloads"
)

type fakeFileStorage struct {
	mu       sync.Mutex
	files    map[string]string
	deleted  []string
	failWith error
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{files: map[string]string{}}
}

func (f *fakeFileStorage) UploadFile(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[key] = string(body)
	return "http://minio.local/avatars/" + key, nil
}

func (f *fakeFileStorage) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	events   []payloads.UserEvent
	failWith error
}

func (p *fakePublisher) PublishUserEvent(_ context.Context, event payloads.UserEvent) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
