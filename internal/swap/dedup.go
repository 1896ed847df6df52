package swap

import (
	"image"
	"sync"

	"github.com/corona10/goimagehash"
)

// dupThreshold is the maximum Hamming distance between two dHash values
// below which images are considered perceptually identical.
const dupThreshold = 10

// DupFilter rejects images perceptually identical to ones already seen,
// so a batch never shows the same meme twice under different post IDs.
// Safe for concurrent use.
type DupFilter struct {
	mu     sync.Mutex
	hashes []*goimagehash.ImageHash
}

func NewDupFilter() *DupFilter {
	return &DupFilter{}
}

// IsDuplicate reports whether img is perceptually identical to a previously
// accepted image. If hashing fails the image is accepted, never dropped.
func (d *DupFilter) IsDuplicate(img image.Image) bool {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, h := range d.hashes {
		dist, err := hash.Distance(h)
		if err == nil && dist < dupThreshold {
			return true
		}
	}

	d.hashes = append(d.hashes, hash)
	return false
}
