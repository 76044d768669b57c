// Package modal scopes transient view state: dialogs whose forms are reset on every
// close, and registries of mounted handles that are torn down on unmount.
package modal

import "sync"

// Dialog holds one typed form and its visibility. Hiding always resets the form.
type Dialog[F any] struct {
	mu      sync.Mutex
	name    string
	visible bool
	form    F
	newForm func() F
}

func NewDialog[F any](name string, newForm func() F) *Dialog[F] {
	return &Dialog[F]{name: name, form: newForm(), newForm: newForm}
}

func (d *Dialog[F]) Name() string { return d.name }

// Show opens the dialog with a blank form.
func (d *Dialog[F]) Show() {
	d.ShowWith(d.newForm())
}

// ShowWith opens the dialog prefilled with form (edit dialogs).
func (d *Dialog[F]) ShowWith(form F) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = true
	d.form = form
}

func (d *Dialog[F]) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hideLocked()
}

func (d *Dialog[F]) hideLocked() {
	d.visible = false
	d.form = d.newForm()
}

func (d *Dialog[F]) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

func (d *Dialog[F]) Form() F {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

// Update edits the form in place while the dialog is open.
func (d *Dialog[F]) Update(fn func(*F)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.form)
}

// Submit runs fn with the current form, then closes the dialog and resets the form
// whether fn succeeded or not. fn runs without the dialog lock held.
func (d *Dialog[F]) Submit(fn func(F) error) error {
	d.mu.Lock()
	form := d.form
	d.mu.Unlock()

	defer d.Hide()
	return fn(form)
}

// View is the JSON shape of a dialog.
type View[F any] struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Form    F      `json:"form"`
}

func (d *Dialog[F]) View() View[F] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return View[F]{Name: d.name, Visible: d.visible, Form: d.form}
}
