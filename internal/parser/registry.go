// Package parser extracts tracking candidates from decoded emails using a
// static table of per-retailer parse functions.
package parser

import (
	"log/slog"

	"github.com/parcelflow/parcelflow/internal/model"
)

// Func is the shared parser contract: one email in, zero or more tracking
// candidates out. Parsers return an empty slice when nothing is found and
// never report errors; the dispatcher isolates panics.
type Func func(model.EmailMessage) []model.TrackingCandidate

// Descriptor binds a parser to the sender-domain substring that selects it.
type Descriptor struct {
	ID          string
	DomainMatch string
	Parse       Func
}

// descriptors is the ordered registry. Carrier parsers come first, then
// retailers, with the generic fallback last. Order only affects log output
// and the per-parser result buckets; every matching parser always runs.
var descriptors = []Descriptor{
	{ID: "ups", DomainMatch: "ups.com", Parse: parseUPS},
	{ID: "fedex", DomainMatch: "fedex.com", Parse: parseFedEx},
	{ID: "usps", DomainMatch: "usps.com", Parse: parseUSPS},
	{ID: "dhl", DomainMatch: "dhl", Parse: parseDHL},
	{ID: "amazon", DomainMatch: "amazon.com", Parse: parseAmazon},
	{ID: "amazon_de", DomainMatch: "amazon.de", Parse: parseAmazonDE},
	{ID: "ali_express", DomainMatch: "aliexpress.com", Parse: parseAliExpress},
	{ID: "ebay", DomainMatch: "ebay.com", Parse: parseEbay},
	{ID: "hue", DomainMatch: "luzernsolutions", Parse: parseHue},
	{ID: "google_express", DomainMatch: "google.com", Parse: parseGoogleExpress},
	{ID: "best_buy", DomainMatch: "bestbuy.com", Parse: parseBestBuy},
	{ID: "nuleaf", DomainMatch: "nuleafnaturals.com", Parse: parseNuleaf},
	{ID: "dsw", DomainMatch: "dsw.com", Parse: parseDSW},
	{ID: "chewy", DomainMatch: "chewy.com", Parse: parseChewy},
	{ID: "groupon", DomainMatch: "groupon.com", Parse: parseGroupon},
	{ID: "home_depot", DomainMatch: "homedepot.com", Parse: parseHomeDepot},
	{ID: "house_of_noa", DomainMatch: "House of Noa", Parse: parseHouseOfNoa},
	{ID: "target", DomainMatch: "target.com", Parse: parseTarget},
	{ID: "litter_robot", DomainMatch: "litter-robot.com", Parse: parseLitterRobot},
	{ID: "smartesthouse", DomainMatch: "thesmartesthouse.com", Parse: parseSmartestHouse},
	{ID: "ubiquiti", DomainMatch: "ui.com", Parse: parseUbiquiti},
	{ID: "sony", DomainMatch: "sony.com", Parse: parseSony},
	{ID: "loog_guitars", DomainMatch: "loogguitars.com", Parse: parseLoogGuitars},
	{ID: "thrift_books", DomainMatch: "thriftbooks", Parse: parseThriftBooks},
	{ID: "etsy", DomainMatch: "account.etsy.com", Parse: parseEtsy},
	{ID: "moen", DomainMatch: "moen.com", Parse: parseMoen},
	{ID: "wayfair", DomainMatch: "wayfair.com", Parse: parseWayfair},
	{ID: "switchbot", DomainMatch: "switch-bot.com", Parse: parseSwitchBot},
	{ID: "generic", DomainMatch: "@", Parse: parseGeneric},
}

// Registry returns the static parser table.
func Registry() []Descriptor {
	return descriptors
}

// SafeParse runs one parser against one email, converting a panic into an
// empty result so a single bad parser never aborts a scan.
func SafeParse(d Descriptor, email model.EmailMessage) (out []model.TrackingCandidate) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("parser failed", "parser", d.ID, "from", email.From, "panic", r)
			out = nil
		}
	}()
	return d.Parse(email)
}
