package model

// PersistedState is the per-account state blob shared between scans and
// manual mutations. It is loaded at the start of every operation, mutated
// in memory and saved at the end.
type PersistedState struct {
	Packages       map[string]Package `json:"packages"`
	ManualPackages map[string]Package `json:"manual_packages"`
	Hidden         []string           `json:"hidden_tracking_numbers"`

	// LegacyIgnored is the pre-rename key for the hidden list. It is
	// accepted on load, merged into Hidden by Normalize and never written.
	LegacyIgnored []string `json:"ignored_tracking_numbers,omitempty"`
}

// NewPersistedState returns an empty, fully initialized state.
func NewPersistedState() *PersistedState {
	return &PersistedState{
		Packages:       make(map[string]Package),
		ManualPackages: make(map[string]Package),
	}
}

// Normalize initializes nil maps and migrates the legacy hidden-list key.
// It must be called after unmarshaling a stored blob.
func (s *PersistedState) Normalize() {
	if s.Packages == nil {
		s.Packages = make(map[string]Package)
	}
	if s.ManualPackages == nil {
		s.ManualPackages = make(map[string]Package)
	}
	for _, tn := range s.LegacyIgnored {
		if !s.IsHidden(tn) {
			s.Hidden = append(s.Hidden, tn)
		}
	}
	s.LegacyIgnored = nil
}

// IsHidden reports whether a tracking number is on the hidden list.
func (s *PersistedState) IsHidden(trackingNumber string) bool {
	for _, tn := range s.Hidden {
		if tn == trackingNumber {
			return true
		}
	}
	return false
}

// Hide adds a tracking number to the hidden list if not already present.
func (s *PersistedState) Hide(trackingNumber string) {
	if !s.IsHidden(trackingNumber) {
		s.Hidden = append(s.Hidden, trackingNumber)
	}
}

// Unhide removes a tracking number from the hidden list. It returns true
// if the number was present.
func (s *PersistedState) Unhide(trackingNumber string) bool {
	for i, tn := range s.Hidden {
		if tn == trackingNumber {
			s.Hidden = append(s.Hidden[:i], s.Hidden[i+1:]...)
			return true
		}
	}
	return false
}
