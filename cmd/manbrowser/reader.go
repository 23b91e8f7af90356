package main

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Formatter selects the external tool chain that turns a man page into
// HTML. Every formatter except "man" pipes troff output through a
// separate converter, so that converter must be installed.
type Formatter string

const (
	FormatterMan      Formatter = "man"
	FormatterRoffit   Formatter = "roffit"
	FormatterMan2HTML Formatter = "man2html"
	FormatterPandoc   Formatter = "pandoc"
)

func parseFormatter(s string) (Formatter, error) {
	switch Formatter(s) {
	case FormatterMan, FormatterRoffit, FormatterMan2HTML, FormatterPandoc:
		return Formatter(s), nil
	}
	return "", fmt.Errorf("unknown formatter %q (man, roffit, man2html, pandoc)", s)
}

type renderer struct {
	manArgs    []string
	filterCmd  string
	filterArgs []string
}

func rendererFor(f Formatter) renderer {
	switch f {
	case FormatterRoffit:
		return renderer{manArgs: []string{"-R", "UTF-8"}, filterCmd: "roffit"}
	case FormatterMan2HTML:
		return renderer{manArgs: []string{"-R", "UTF-8"}, filterCmd: "man2html", filterArgs: []string{"-r"}}
	case FormatterPandoc:
		return renderer{manArgs: []string{"-R", "UTF-8"}, filterCmd: "pandoc", filterArgs: []string{"-r", "man", "-t", "html5"}}
	default:
		// man renders HTML itself; the filter is the identity.
		return renderer{manArgs: []string{"--html=cat"}}
	}
}

// manAsHTML renders a man page. found is false when the page does not
// exist; err reports a broken tool chain, not a missing page.
func (f Formatter) manAsHTML(page string) (html string, found bool, err error) {
	r := rendererFor(f)

	man := exec.Command("man", append(r.manArgs, "--", page)...)
	var out, stderr bytes.Buffer
	man.Stdout = &out
	man.Stderr = &stderr
	if err := man.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// man exits nonzero for unknown pages.
			return strings.TrimSpace(stderr.String()), false, nil
		}
		return "", false, fmt.Errorf("run man: %w", err)
	}
	if r.filterCmd == "" {
		return out.String(), true, nil
	}

	filter := exec.Command(r.filterCmd, r.filterArgs...)
	filter.Stdin = &out
	var filtered bytes.Buffer
	filter.Stdout = &filtered
	if err := filter.Run(); err != nil {
		return "", false, fmt.Errorf("run %s: %w", r.filterCmd, err)
	}
	return filtered.String(), true, nil
}
