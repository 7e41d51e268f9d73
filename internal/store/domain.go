// Copyright (c) 2017-present SIGHUP s.r.l All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDomain = errors.New("unknown configuration domain")

// Domain names one (base file, patch file) pair.
type Domain string

const (
	// DomainDefault holds the engine-wide settings.
	DomainDefault Domain = "default"
	// DomainSquirrel holds the front-end appearance settings.
	DomainSquirrel Domain = "squirrel"
)

func Domains() []Domain {
	return []Domain{DomainDefault, DomainSquirrel}
}

func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains() {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownDomain, s)
}

func (d Domain) BaseFile() string {
	return string(d) + ".yaml"
}

func (d Domain) PatchFile() string {
	return string(d) + ".custom.yaml"
}

// DomainForFile returns the domain owning the base or patch file name.
func DomainForFile(name string) (Domain, bool) {
	for _, d := range Domains() {
		if name == d.BaseFile() || name == d.PatchFile() {
			return d, true
		}
	}

	return "", false
}
