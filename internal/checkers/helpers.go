package checkers

import (
	"regexp"
	"strings"
)

// Matcher inspects raw source text. detail optionally names what matched.
type Matcher func(code string) (detail string, ok bool)

func re(expr string) Matcher {
	rx := regexp.MustCompile(expr)
	return func(code string) (string, bool) {
		return "", rx.MatchString(code)
	}
}

func contains(sub string) Matcher {
	return func(code string) (string, bool) {
		return "", strings.Contains(code, sub)
	}
}

// allOf matches when every matcher does. The first non-empty detail wins.
func allOf(ms ...Matcher) Matcher {
	return func(code string) (string, bool) {
		var detail string
		for _, m := range ms {
			d, ok := m(code)
			if !ok {
				return "", false
			}
			if detail == "" {
				detail = d
			}
		}
		return detail, true
	}
}

func anyOf(ms ...Matcher) Matcher {
	return func(code string) (string, bool) {
		for _, m := range ms {
			if d, ok := m(code); ok {
				return d, true
			}
		}
		return "", false
	}
}

func not(m Matcher) Matcher {
	return func(code string) (string, bool) {
		_, ok := m(code)
		return "", !ok
	}
}

type named struct {
	name string
	rx   *regexp.Regexp
}

func nre(name, expr string) named {
	return named{name: name, rx: regexp.MustCompile(expr)}
}

// firstOf reports the name of the first pattern that matches.
func firstOf(ns ...named) Matcher {
	return func(code string) (string, bool) {
		for _, n := range ns {
			if n.rx.MatchString(code) {
				return n.name, true
			}
		}
		return "", false
	}
}
