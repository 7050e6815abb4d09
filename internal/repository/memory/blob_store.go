package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
)

type BlobStore struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	publicURL string
}

func NewBlobStore(publicURL string) *BlobStore {
	return &BlobStore{
		objects:   make(map[string][]byte),
		publicURL: publicURL,
	}
}

func (b *BlobStore) Put(ctx context.Context, fileName string, content []byte) (*repository.StoredObject, error) {
	key := repository.GenerateObjectKey(fileName, time.Now().UTC())

	b.mu.Lock()
	b.objects[key] = append([]byte(nil), content...)
	b.mu.Unlock()

	return &repository.StoredObject{
		Key: key,
		URL: b.publicURL + "/" + key,
	}, nil
}

func (b *BlobStore) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	delete(b.objects, key)
	b.mu.Unlock()
	return nil
}

func (b *BlobStore) Get(key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	content, ok := b.objects[key]
	return content, ok
}

func (b *BlobStore) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.objects)
}
