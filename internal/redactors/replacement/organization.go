// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package replacement

import (
	"strings"
	"unicode"
)

// OrgCategory is the kind of organization a name refers to.
type OrgCategory string

const (
	OrgUniversity OrgCategory = "university"
	OrgHospital   OrgCategory = "hospital"
	OrgNGO        OrgCategory = "ngo"
	OrgBank       OrgCategory = "bank"
	OrgAssurance  OrgCategory = "assurance"
	OrgLawFirm    OrgCategory = "law_firm"
	OrgNotaire    OrgCategory = "notaire"
	OrgFiduciaire OrgCategory = "fiduciaire"
	OrgCompany    OrgCategory = "company"
)

// Checked in order; the first category with a matching keyword wins.
var orgKeywords = []struct {
	category OrgCategory
	keywords []string
}{
	{OrgUniversity, []string{
		"université", "universite", "university", "universität", "uni", "unil", "unige",
		"unine", "unifr", "epfl", "eth", "hes", "hes-so", "heig-vd", "haute école",
		"haute ecole", "école polytechnique", "ecole polytechnique", "faculté", "faculte",
	}},
	{OrgHospital, []string{
		"hôpital", "hopital", "hospital", "hôpitaux", "hopitaux", "clinique", "clinic",
		"chuv", "hug", "hfr", "rhne", "ehnv", "centre hospitalier", "ems", "policlinique",
		"permanence",
	}},
	{OrgNGO, []string{
		"fondation", "foundation", "association", "ong", "croix-rouge", "croix rouge",
		"caritas", "pro senectute", "pro infirmis", "emmaüs", "terre des hommes",
		"médecins sans frontières", "msf", "amnesty",
	}},
	{OrgBank, []string{
		"banque", "bank", "banking", "ubs", "credit suisse", "crédit suisse", "bcv", "bcvs",
		"bcge", "bcn", "bcf", "bcj", "zkb", "raiffeisen", "postfinance", "julius bär",
		"julius baer", "pictet", "lombard odier", "mirabaud", "cler", "valiant",
		"migros bank", "banque cantonale", "hypothekarbank", "wir",
	}},
	{OrgAssurance, []string{
		"assurance", "assurances", "insurance", "versicherung", "mutuel", "groupe mutuel",
		"helsana", "css", "axa", "swiss life", "baloise", "bâloise", "vaudoise", "generali",
		"allianz", "mobilière", "mobiliere", "suva", "visana", "sanitas", "concordia",
		"assura", "swica", "sympany", "zurich assurances",
	}},
	{OrgLawFirm, []string{
		"avocat", "avocats", "avocate", "avocates", "law firm", "lawyers", "attorneys",
		"cabinet juridique", "étude d'avocats", "etude d'avocats", "legal",
	}},
	{OrgNotaire, []string{
		"notaire", "notaires", "notariat", "notarial", "étude de notaire", "etude de notaire",
	}},
	{OrgFiduciaire, []string{
		"fiduciaire", "fiduciary", "fidu", "expert-comptable", "experts-comptables",
		"comptable", "comptabilité", "audit", "révision", "revision", "treuhand",
	}},
}

// ClassifyOrganization buckets an organization name by keyword. Keywords
// match whole words only, so "eth" does not match "méthode".
func ClassifyOrganization(name string) OrgCategory {
	padded := " " + orgWords(name) + " "
	for _, group := range orgKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(padded, " "+kw+" ") {
				return group.category
			}
		}
	}
	return OrgCompany
}

// orgWords lower-cases s and turns punctuation other than apostrophes and
// hyphens into spaces.
func orgWords(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '\'', r == '-', r == '’':
			if r == '’' {
				return '\''
			}
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
