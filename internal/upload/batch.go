// Package upload validates resume batches and sends them to the backend.
package upload

import (
	"fmt"
	"mime"
	"strings"
	"sync"

	"ats-console/internal/common/config"
	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/metrics"
)

// File is one selected resume.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Content     []byte `json:"-"`
}

// Rejection reasons.
const (
	ReasonNotPDF    = "not_pdf"
	ReasonTooLarge  = "too_large"
	ReasonDuplicate = "duplicate"
)

// Rejection names a skipped file and the warning shown for it.
type Rejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

func (r Rejection) Err() error {
	return apperrors.NewUploadRejectedError(r.Filename, r.Message)
}

// Batch is the pending selection of one upload widget.
type Batch struct {
	mu          sync.Mutex
	files       []File
	maxBytes    int64
	contentType string
	maxDisplay  int
}

func NewBatch(cfg config.UploadConfig) *Batch {
	b := &Batch{
		maxBytes:    cfg.MaxFileBytes,
		contentType: cfg.AllowedContentType,
		maxDisplay:  cfg.MaxDisplay,
	}
	if b.maxBytes <= 0 {
		b.maxBytes = config.DefaultUploadMaxBytes
	}
	if b.contentType == "" {
		b.contentType = config.DefaultUploadType
	}
	if b.maxDisplay <= 0 {
		b.maxDisplay = 5
	}
	return b
}

// Add checks each file in order and appends the ones that pass. A name already in
// the batch, or earlier in the same selection, is a duplicate.
func (b *Batch) Add(files []File) []Rejection {
	b.mu.Lock()
	defer b.mu.Unlock()

	var rejected []Rejection
	for _, f := range files {
		if r, ok := b.check(f); !ok {
			metrics.UploadFilesRejected.WithLabelValues(r.Reason).Inc()
			rejected = append(rejected, r)
			continue
		}
		if f.Size == 0 {
			f.Size = int64(len(f.Content))
		}
		b.files = append(b.files, f)
	}
	return rejected
}

func (b *Batch) check(f File) (Rejection, bool) {
	switch {
	case !sameMediaType(f.ContentType, b.contentType):
		return Rejection{f.Name, ReasonNotPDF, fmt.Sprintf("File %q is not a PDF and was skipped.", f.Name)}, false
	case f.size() > b.maxBytes:
		return Rejection{f.Name, ReasonTooLarge, fmt.Sprintf("File %q is larger than %s and was skipped.", f.Name, humanSize(b.maxBytes))}, false
	case b.hasLocked(f.Name):
		return Rejection{f.Name, ReasonDuplicate, fmt.Sprintf("File %q is already added and was skipped.", f.Name)}, false
	}
	return Rejection{}, true
}

func (f File) size() int64 {
	if f.Size > 0 {
		return f.Size
	}
	return int64(len(f.Content))
}

func (b *Batch) hasLocked(name string) bool {
	for _, f := range b.files {
		if f.Name == name {
			return true
		}
	}
	return false
}

func sameMediaType(got, want string) bool {
	mt, _, err := mime.ParseMediaType(got)
	if err != nil {
		return false
	}
	return strings.EqualFold(mt, want)
}

func humanSize(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}

func (b *Batch) Remove(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.files) {
		return apperrors.NewValidationError(fmt.Sprintf("No file at position %d", index), "index")
	}
	b.files = append(b.files[:index:index], b.files[index+1:]...)
	return nil
}

func (b *Batch) Files() []File {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]File, len(b.files))
	copy(out, b.files)
	return out
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.files)
}

func (b *Batch) TotalSize() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var total int64
	for _, f := range b.files {
		total += f.size()
	}
	return total
}

func (b *Batch) Clear() {
	b.mu.Lock()
	b.files = nil
	b.mu.Unlock()
}

// View is what the upload widget renders: the first few names and a count of the
// rest.
type View struct {
	Names     []string `json:"names"`
	More      int      `json:"more"`
	Count     int      `json:"count"`
	TotalSize int64    `json:"totalSize"`
	Label     string   `json:"label"`
}

func (b *Batch) View() View {
	files := b.Files()
	v := View{Names: []string{}, Count: len(files)}
	for i, f := range files {
		if i < b.maxDisplay {
			v.Names = append(v.Names, f.Name)
		}
		v.TotalSize += f.size()
	}
	if len(files) > b.maxDisplay {
		v.More = len(files) - b.maxDisplay
	}
	switch len(files) {
	case 0:
		v.Label = "Drag & drop your resume here or click to browse"
	case 1:
		v.Label = "1 file selected"
	default:
		v.Label = fmt.Sprintf("%d files selected", len(files))
	}
	return v
}
