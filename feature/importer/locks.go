package importer

import "sync"

// lock serializes work on one identity key so two records in the same batch
// that resolve to the same venue, artist or show cannot both pass the
// existence check and create duplicates.
func (i *Importer) lock(key string) func() {
	i.keysMu.Lock()
	if i.keys == nil {
		i.keys = make(map[string]*sync.Mutex)
	}
	mu, ok := i.keys[key]
	if !ok {
		mu = &sync.Mutex{}
		i.keys[key] = mu
	}
	i.keysMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
