// Package model defines the core domain types shared across the application.
package model

import (
	"regexp"
	"strings"
	"time"
)

// PackageSource identifies how a package entered the store.
type PackageSource string

// Package sources.
const (
	SourceAuto   PackageSource = "auto"
	SourceManual PackageSource = "manual"
)

// EmailMessage is one decoded email, produced once per fetched message.
type EmailMessage struct {
	Timestamp time.Time
	From      string
	Subject   string
	Body      string
}

// TrackingCandidate is an unvalidated extraction result from one parser.
// Only TrackingNumber is required; the carrier resolver fills the rest.
type TrackingCandidate struct {
	EmailTimestamp time.Time
	TrackingNumber string
	Link           string
	Carrier        string
	Origin         string
}

// ResolvedCandidate is a TrackingCandidate whose Carrier, Origin and Link
// are guaranteed non-empty.
type ResolvedCandidate struct {
	TrackingCandidate
}

// Package is the persisted entity, keyed by tracking number.
type Package struct {
	FirstSeen      time.Time     `json:"first_seen"`
	LastUpdated    time.Time     `json:"last_updated"`
	TrackingNumber string        `json:"tracking_number"`
	Carrier        string        `json:"carrier"`
	Origin         string        `json:"origin"`
	Link           string        `json:"link"`
	Status         string        `json:"status,omitempty"`
	RetailerCode   string        `json:"retailer_code"`
	CarrierCode    string        `json:"carrier_code"`
	Source         PackageSource `json:"source"`
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// RetailerCode derives a stable code from a matched sender domain:
// the @ is stripped and any non-alphanumeric run becomes an underscore.
func RetailerCode(domain string) string {
	code := strings.ToLower(strings.ReplaceAll(domain, "@", ""))
	code = nonAlnumRe.ReplaceAllString(code, "_")
	return strings.Trim(code, "_")
}

// CarrierCode lower-cases a carrier name and replaces spaces with underscores.
func CarrierCode(carrier string) string {
	return strings.ReplaceAll(strings.ToLower(carrier), " ", "_")
}
