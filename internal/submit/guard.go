// Package submit guards forms against being submitted twice.
package submit

// DefaultLoadingText replaces the submit label while a submission runs.
const DefaultLoadingText = "Submitting…"

// Button is the submit control of a form.
type Button struct {
	Label       string
	LoadingText string
	Disabled    bool
}

// Text returns what the button currently shows.
func (b *Button) Text() string {
	return b.Label
}

// Guard disables a button for the duration of a submission.
//
// A failed submission calls Fail to re-enable the button; without it the
// form would stay locked after an error that keeps the user on the page.
type Guard struct {
	button *Button
	label  string
}

// NewGuard returns a guard for b.
func NewGuard(b *Button) *Guard {
	return &Guard{button: b, label: b.Label}
}

// Button returns the guarded button.
func (g *Guard) Button() *Button {
	return g.button
}

// Submit disables the button and shows the loading label. It returns false
// when a submission is already in flight.
func (g *Guard) Submit() bool {
	if g.button.Disabled {
		return false
	}
	g.label = g.button.Label
	g.button.Disabled = true
	if g.button.LoadingText != "" {
		g.button.Label = g.button.LoadingText
	} else {
		g.button.Label = DefaultLoadingText
	}
	return true
}

// Fail re-enables the button and restores its label.
func (g *Guard) Fail() {
	g.button.Disabled = false
	g.button.Label = g.label
}

// Pending reports whether a submission is in flight.
func (g *Guard) Pending() bool {
	return g.button.Disabled
}
