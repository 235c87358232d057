// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package replacement generates realistic stand-ins for detected entities:
// French-Swiss names, addresses, organizations, identifiers and dates.
package replacement

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"pii-anonymizer/internal/cache"
	"pii-anonymizer/internal/detector"
)

// GenerateFunc produces a pseudonym for original, without padding.
type GenerateFunc func(original string) (string, error)

// Defaults for the tunable generators.
const (
	DefaultAgeMin   = 18
	DefaultAgeMax   = 90
	DefaultIDLength = 10
)

// Generators holds one pseudonym strategy per supported entity kind and the
// cache that keeps them consistent.
type Generators struct {
	faker      *gofakeit.Faker
	cache      *cache.Cache
	strategies map[detector.EntityKind]GenerateFunc
	ageMin     int
	ageMax     int
	idLength   int
	now        func() time.Time
}

// Option configures Generators.
type Option func(*Generators)

// WithSeed makes generation reproducible. Zero picks a random seed.
func WithSeed(seed int64) Option {
	return func(g *Generators) { g.faker = gofakeit.New(seed) }
}

// WithAgeRange sets the inclusive range for fake ages.
func WithAgeRange(minAge, maxAge int) Option {
	return func(g *Generators) { g.ageMin, g.ageMax = minAge, maxAge }
}

// WithIDLength sets the length of generated identifiers.
func WithIDLength(n int) Option {
	return func(g *Generators) { g.idLength = n }
}

// WithClock sets the time source for date generation.
func WithClock(now func() time.Time) Option {
	return func(g *Generators) { g.now = now }
}

// New builds the generator table around c. A nil cache gets a private one.
func New(c *cache.Cache, opts ...Option) (*Generators, error) {
	if c == nil {
		c = cache.New()
	}
	g := &Generators{
		faker:    gofakeit.New(0),
		cache:    c,
		ageMin:   DefaultAgeMin,
		ageMax:   DefaultAgeMax,
		idLength: DefaultIDLength,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.ageMin < 0 || g.ageMin > g.ageMax {
		return nil, fmt.Errorf("invalid age range [%d,%d]", g.ageMin, g.ageMax)
	}
	if g.idLength <= 0 {
		return nil, fmt.Errorf("invalid id length %d", g.idLength)
	}

	g.strategies = map[detector.EntityKind]GenerateFunc{
		detector.Person:        g.person,
		detector.Location:      g.location,
		detector.Organization:  g.organization,
		detector.Age:           g.age,
		detector.DateTime:      g.date,
		detector.ID:            g.id,
		detector.EmailAddress:  g.email,
		detector.URL:           g.url,
		detector.ZipCode:       g.zipCode,
		detector.BankAccount:   g.iban,
		detector.AddressNumber: g.addressNumber,
		detector.PhoneNumber:   g.phone,
	}
	return g, nil
}

// Cache returns the consistency cache in use.
func (g *Generators) Cache() *cache.Cache { return g.cache }

// Supports reports whether kind has a pseudonym strategy.
func (g *Generators) Supports(kind detector.EntityKind) bool {
	_, ok := g.strategies[kind]
	return ok
}

// Kinds lists the kinds with a pseudonym strategy.
func (g *Generators) Kinds() []detector.EntityKind {
	kinds := make([]detector.EntityKind, 0, len(g.strategies))
	for k := range g.strategies {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Pseudonymize returns the substitute for original, generating and caching
// one on first sight. Person names keep their honorific: the cache holds the
// bare name and the original title is put back in front.
func (g *Generators) Pseudonymize(kind detector.EntityKind, original string) (string, error) {
	generate, ok := g.strategies[kind]
	if !ok {
		return "", fmt.Errorf("no pseudonym strategy for %s", kind)
	}
	v, err := g.cache.GetOrCreate(cache.NewKey(original, kind), func() (string, error) {
		return generate(original)
	})
	if err != nil {
		return "", fmt.Errorf("generating %s pseudonym: %w", kind, err)
	}
	if kind == detector.Person {
		if title, _ := cache.SplitTitle(original); title != "" {
			return title + " " + v, nil
		}
	}
	return v, nil
}

// ─── People ──────────────────────────────────────────────────────────────────

func (g *Generators) person(original string) (string, error) {
	title, rest := cache.SplitTitle(original)
	last := g.pick(lastNames)
	if title != "" {
		return last, nil
	}
	switch InferGender(rest) {
	case GenderMale:
		return g.pick(maleFirstNames) + " " + last, nil
	case GenderFemale:
		return g.pick(femaleFirstNames) + " " + last, nil
	default:
		return g.faker.RandomString(allFirstNames) + " " + last, nil
	}
}

var allFirstNames = append(append(append([]string(nil), maleFirstNames...), femaleFirstNames...), unisexFirstNames...)

func (g *Generators) age(string) (string, error) {
	return strconv.Itoa(g.faker.Number(g.ageMin, g.ageMax)), nil
}

// ─── Places ──────────────────────────────────────────────────────────────────

// location returns a full address when the original looks like one, a city
// otherwise.
func (g *Generators) location(original string) (string, error) {
	if looksLikeAddress(original) {
		return fmt.Sprintf("%s %s %d, %s %s",
			g.pick(streetKinds), g.pick(streetNames), g.faker.Number(1, 150),
			g.swissZip(), g.pick(swissCities)), nil
	}
	return g.pick(swissCities), nil
}

func looksLikeAddress(s string) bool {
	if strings.ContainsAny(s, ",0123456789") {
		return true
	}
	words := " " + strings.ToLower(s) + " "
	for _, kw := range []string{"rue", "route", "chemin", "ch.", "avenue", "av.", "boulevard", "place", "quai", "passage", "impasse"} {
		if strings.Contains(words, " "+kw+" ") {
			return true
		}
	}
	return false
}

func (g *Generators) zipCode(string) (string, error) {
	return g.swissZip(), nil
}

func (g *Generators) swissZip() string {
	return strconv.Itoa(g.faker.Number(1000, 9658))
}

func (g *Generators) addressNumber(string) (string, error) {
	return strconv.Itoa(g.faker.Number(1, 999)), nil
}

// ─── Organizations ───────────────────────────────────────────────────────────

func (g *Generators) organization(original string) (string, error) {
	surname := g.pick(lastNames)
	switch ClassifyOrganization(original) {
	case OrgUniversity:
		return "Université de " + g.pick(swissCities), nil
	case OrgHospital:
		return g.pick(swissCities) + " Hôpital", nil
	case OrgNGO:
		return surname + " Fondation", nil
	case OrgBank:
		return surname + " Banque", nil
	case OrgAssurance:
		return surname + " Assurance", nil
	case OrgLawFirm:
		return surname + " Cabinet d'Avocats", nil
	case OrgNotaire:
		return surname + " Notaire", nil
	case OrgFiduciaire:
		return surname + " Fiduciaire", nil
	default:
		return surname + " " + g.pick(companySuffixes), nil
	}
}

// ─── Contact details and identifiers ─────────────────────────────────────────

func (g *Generators) phone(string) (string, error) {
	return g.faker.Numerify(g.pick(phoneFormats)), nil
}

func (g *Generators) email(string) (string, error) {
	return strings.ToLower(g.faker.Email()), nil
}

func (g *Generators) url(string) (string, error) {
	return g.faker.URL(), nil
}

func (g *Generators) id(string) (string, error) {
	return g.faker.Password(true, true, true, false, false, g.idLength), nil
}

// date returns a DD.MM.YYYY date between the start of the current decade
// and now.
func (g *Generators) date(string) (string, error) {
	now := g.now()
	start := time.Date(now.Year()/10*10, time.January, 1, 0, 0, 0, 0, now.Location())
	return g.faker.DateRange(start, now).In(now.Location()).Format("02.01.2006"), nil
}

// iban returns a Swiss IBAN (CH, 2 check digits, 17 digit BBAN) whose check
// digits are valid.
func (g *Generators) iban(string) (string, error) {
	var bban strings.Builder
	for i := 0; i < 17; i++ {
		bban.WriteByte(byte('0' + g.faker.Number(0, 9)))
	}
	check, err := ibanCheckDigits("CH", bban.String())
	if err != nil {
		return "", err
	}
	return "CH" + check + bban.String(), nil
}

// ibanCheckDigits computes the ISO 13616 MOD-97 check digits.
func ibanCheckDigits(country, bban string) (string, error) {
	rearranged := bban + country + "00"
	mod := 0
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			mod = (mod*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			mod = (mod*100 + int(r-'A'+10)) % 97
		default:
			return "", fmt.Errorf("invalid IBAN character %q", r)
		}
	}
	return fmt.Sprintf("%02d", 98-mod), nil
}

// ValidIBAN reports whether the MOD-97 checksum of iban holds.
func ValidIBAN(iban string) bool {
	iban = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(iban) < 5 {
		return false
	}
	check, err := ibanCheckDigits(iban[:2], iban[4:])
	return err == nil && check == iban[2:4]
}

func (g *Generators) pick(values []string) string {
	return g.faker.RandomString(values)
}
