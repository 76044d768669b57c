// Package inbox groups the HR mailbox into senders and threads and drives the
// message page.
package inbox

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/grouping"
	"ats-console/internal/models"
)

const NoSubject = "(No Subject)"

type State string

const (
	StateThreadList   State = "thread-list"
	StateThreadDetail State = "thread-detail"
)

var addressPattern = regexp.MustCompile(`^(.*)\s<(.+)>$`)

// Sender is one entry of the left panel. Address is the raw "from" value and the
// key used to select it.
type Sender struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Count   int    `json:"count"`
}

// SplitAddress splits "Name <email>". Anything else is returned as the name.
func SplitAddress(from string) (name, email string) {
	if m := addressPattern.FindStringSubmatch(from); m != nil {
		return m[1], m[2]
	}
	return from, ""
}

type ThreadSummary struct {
	ThreadID     string `json:"threadId"`
	Subject      string `json:"subject"`
	Count        int    `json:"count"`
	LastReceived string `json:"lastReceived"`
}

type ThreadDetail struct {
	ThreadID string           `json:"threadId"`
	Title    string           `json:"title"`
	Messages []models.Message `json:"messages"`
}

// ReplyDraft addresses a reply to the latest message of the open thread.
type ReplyDraft struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	ThreadID  string `json:"threadId"`
	MessageID string `json:"messageId"`
}

func receivedAt(m models.Message) time.Time { return grouping.ParseTimestamp(m.ReceivedAt) }

func subjectOr(s string) string {
	if s == "" {
		return NoSubject
	}
	return s
}

// Viewer is the two-state message browser. It starts in the thread list with no
// sender selected.
type Viewer struct {
	mu       sync.Mutex
	messages []models.Message
	sender   string
	threadID string
}

func NewViewer() *Viewer {
	return &Viewer{}
}

// SetMessages replaces the mailbox. A selection that no longer exists is dropped.
func (v *Viewer) SetMessages(msgs []models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append([]models.Message(nil), msgs...)
	v.reconcileLocked()
}

func (v *Viewer) reconcileLocked() {
	if v.sender == "" {
		return
	}
	threads := v.threadsLocked()
	if threads.Len() == 0 {
		v.sender, v.threadID = "", ""
		return
	}
	if v.threadID != "" && !threads.Has(v.threadID) {
		v.threadID = ""
	}
}

func (v *Viewer) bySenderLocked() *grouping.Groups[string, models.Message] {
	return grouping.GroupBy(v.messages, func(m models.Message) string { return m.From })
}

func (v *Viewer) threadsLocked() *grouping.Groups[string, models.Message] {
	return grouping.GroupBy(v.bySenderLocked().Get(v.sender), func(m models.Message) string { return m.ThreadID })
}

func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.threadID != "" {
		return StateThreadDetail
	}
	return StateThreadList
}

func (v *Viewer) Selected() (sender, threadID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sender, v.threadID
}

// Senders lists every sender sorted by address.
func (v *Viewer) Senders() []Sender {
	v.mu.Lock()
	g := v.bySenderLocked()
	v.mu.Unlock()

	keys := g.Keys()
	sort.Strings(keys)
	out := make([]Sender, 0, len(keys))
	for _, k := range keys {
		name, email := SplitAddress(k)
		out = append(out, Sender{Address: k, Name: name, Email: email, Count: len(g.Get(k))})
	}
	return out
}

// SelectSender opens the sender's thread list and clears any open thread.
func (v *Viewer) SelectSender(address string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.bySenderLocked().Has(address) {
		return apperrors.NewNotFoundError("sender", fmt.Sprintf("No messages from %q", address))
	}
	v.sender, v.threadID = address, ""
	return nil
}

// SelectThread opens one of the selected sender's threads.
func (v *Viewer) SelectThread(threadID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sender == "" {
		return apperrors.NewInvalidStateError("Select a sender first")
	}
	if !v.threadsLocked().Has(threadID) {
		return apperrors.NewInvalidStateError(fmt.Sprintf("Thread %q does not belong to the selected sender", threadID))
	}
	v.threadID = threadID
	return nil
}

func (v *Viewer) Back() {
	v.mu.Lock()
	v.threadID = ""
	v.mu.Unlock()
}

// Threads ranks the selected sender's threads, most recent first.
func (v *Viewer) Threads() []ThreadSummary {
	v.mu.Lock()
	g := v.threadsLocked()
	v.mu.Unlock()

	ranked := grouping.RankByLatest(g, receivedAt)
	out := make([]ThreadSummary, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, ThreadSummary{
			ThreadID:     r.Key,
			Subject:      subjectOr(r.Latest.Subject),
			Count:        len(r.Items),
			LastReceived: r.Latest.ReceivedAt,
		})
	}
	return out
}

// Detail returns the open thread oldest first. ok is false in the thread list.
func (v *Viewer) Detail() (ThreadDetail, bool) {
	v.mu.Lock()
	id := v.threadID
	g := v.threadsLocked()
	v.mu.Unlock()

	if id == "" {
		return ThreadDetail{}, false
	}
	msgs := grouping.SortAscending(g.Get(id), receivedAt)
	d := ThreadDetail{ThreadID: id, Title: NoSubject, Messages: msgs}
	if len(msgs) > 0 {
		d.Title = subjectOr(msgs[0].Subject)
	}
	return d, true
}

// ReplyDraft targets the latest message of the open thread, the same one the
// thread list shows.
func (v *Viewer) ReplyDraft() (ReplyDraft, error) {
	d, ok := v.Detail()
	if !ok {
		return ReplyDraft{}, apperrors.NewInvalidStateError("Open a thread to reply")
	}
	latest, ok := grouping.Latest(d.Messages, receivedAt)
	if !ok {
		return ReplyDraft{}, apperrors.NewInvalidStateError("Open a thread to reply")
	}
	return ReplyDraft{
		To:        latest.From,
		Subject:   subjectOr(latest.Subject),
		ThreadID:  d.ThreadID,
		MessageID: latest.MessageID,
	}, nil
}

// RemoveThread drops every message of threadID, whichever sender it belongs to.
func (v *Viewer) RemoveThread(threadID string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.messages[:0:0]
	for _, m := range v.messages {
		if m.ThreadID != threadID {
			kept = append(kept, m)
		}
	}
	removed := len(v.messages) - len(kept)
	v.messages = kept
	if v.threadID == threadID {
		v.threadID = ""
	}
	v.reconcileLocked()
	return removed
}

func (v *Viewer) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.messages)
}

// SplitRecipients splits a comma-separated recipient list, dropping blanks.
func SplitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
