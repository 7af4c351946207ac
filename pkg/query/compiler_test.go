package query

import (
	"reflect"
	"testing"

	"github.com/matst80/slask-catalogue/pkg/types"
)

func TestCompile_GroupsByAttribute(t *testing.T) {
	fs := types.FilterSet{Tokens: []types.FilterToken{
		{Attribute: "color", Option: "red"},
		{Attribute: "brand", Option: "acme"},
		{Attribute: "color", Option: "blue"},
	}}
	p := Compile(fs, types.RubricScope{RubricSlug: "wine", CompanyID: "c1", CitySlug: "msk"})

	want := []AttributeClause{
		{Attribute: "brand", Options: []string{"acme"}},
		{Attribute: "color", Options: []string{"blue", "red"}},
	}
	if !reflect.DeepEqual(p.Clauses, want) {
		t.Errorf("expected %v, got %v", want, p.Clauses)
	}
	if p.RubricSlug != "wine" || p.CompanyID != "c1" || p.CitySlug != "msk" {
		t.Errorf("scope not injected: %+v", p)
	}
	if !p.ActiveOnly {
		t.Errorf("active flag must default to true")
	}
}

func TestCompile_DeterministicAcrossTokenOrder(t *testing.T) {
	a := types.FilterSet{Tokens: []types.FilterToken{
		{Attribute: "color", Option: "red"},
		{Attribute: "brand", Option: "acme"},
	}}
	b := types.FilterSet{Tokens: []types.FilterToken{
		{Attribute: "brand", Option: "acme"},
		{Attribute: "color", Option: "red"},
	}}
	scope := types.RubricScope{RubricSlug: "wine"}
	if !reflect.DeepEqual(Compile(a, scope), Compile(b, scope)) {
		t.Errorf("compilation must not depend on token order")
	}
}

func TestCompile_EmptyUnscoped(t *testing.T) {
	p := Compile(types.FilterSet{}, types.RubricScope{})
	if !p.IsUnscoped() {
		t.Errorf("expected the unscoped all-products predicate, got %+v", p)
	}
}

func TestCompile_SearchRidesAlongside(t *testing.T) {
	fs := types.FilterSet{
		Tokens: []types.FilterToken{{Attribute: "color", Option: "red"}},
		Search: "merlot",
	}
	p := Compile(fs, types.RubricScope{RubricSlug: "wine"})
	if p.Search != "merlot" || len(p.Clauses) != 1 {
		t.Errorf("search and structural filters must combine, got %+v", p)
	}
}

func TestValidateTokens_DropsStale(t *testing.T) {
	candidates := []types.AttributeSpec{
		{Slug: "color", Options: []types.OptionSpec{{Slug: "red"}, {Slug: "blue"}}},
	}
	fs := types.FilterSet{Tokens: []types.FilterToken{
		{Attribute: "color", Option: "red"},
		{Attribute: "color", Option: "magenta"},
		{Attribute: "vintage", Option: "1999"},
	}}
	valid, diags := ValidateTokens(fs, candidates)
	if len(valid.Tokens) != 1 || valid.Tokens[0].Option != "red" {
		t.Errorf("expected only color-red to survive, got %v", valid.Tokens)
	}
	if len(diags) != 2 {
		t.Errorf("expected 2 diagnostics, got %v", diags)
	}
}
