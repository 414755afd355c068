package page

import "sync"

// FadeInClass is added to an element the first time it becomes visible.
const FadeInClass = "fade-in"

// Revealer tracks which elements already faded in. An element fires once and
// is then no longer observed. Safe for concurrent use.
type Revealer struct {
	mu       sync.Mutex
	observed map[string]bool
}

// NewRevealer observes the given element ids.
func NewRevealer(ids ...string) *Revealer {
	r := &Revealer{observed: make(map[string]bool, len(ids))}
	for _, id := range ids {
		r.observed[id] = true
	}
	return r
}

// Intersect reports whether the element should get FadeInClass now.
func (r *Revealer) Intersect(id string, visible bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !visible || !r.observed[id] {
		return false
	}
	delete(r.observed, id)
	return true
}

// Observing reports whether the element is still watched.
func (r *Revealer) Observing(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.observed[id]
}

// Pending returns how many elements have not faded in yet.
func (r *Revealer) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observed)
}

// LazyImage is an image whose real source sits in data-src until it is visible.
type LazyImage struct {
	ID      string
	Src     string
	DataSrc string
}

// LazyLoader swaps data-src into src the first time an image is visible.
type LazyLoader struct {
	mu     sync.Mutex
	images map[string]*LazyImage
}

// NewLazyLoader observes the given images. Images without data-src are ignored.
func NewLazyLoader(images ...LazyImage) *LazyLoader {
	l := &LazyLoader{images: make(map[string]*LazyImage)}
	for i := range images {
		if images[i].DataSrc == "" {
			continue
		}
		img := images[i]
		l.images[img.ID] = &img
	}
	return l
}

// Intersect loads the image when it becomes visible and stops observing it.
// It returns the image and true if the source was swapped.
func (l *LazyLoader) Intersect(id string, visible bool) (LazyImage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[id]
	if !visible || !ok {
		return LazyImage{}, false
	}
	delete(l.images, id)
	img.Src = img.DataSrc
	img.DataSrc = ""
	return *img, true
}

// Pending returns how many images are still waiting.
func (l *LazyLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.images)
}
