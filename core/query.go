package core

import (
	"net/url"
	"strings"

	"github.com/huangsam/dmgcalc/schema"
)

// DecodeBuild reads one build from query values on top of base. A value is
// used only when its field is known and it parses to a finite number;
// anything else leaves the base value in place.
func DecodeBuild(values url.Values, build schema.BuildID, base schema.ParameterSet) schema.ParameterSet {
	p := base
	for _, f := range schema.Fields {
		raw, ok := values[schema.QueryKey(build, f.Key)]
		if !ok || len(raw) == 0 {
			continue
		}
		if v, ok := f.ParseSeed(raw[0]); ok {
			f.Set(&p, v)
		}
	}
	return p
}

// DecodeBuilds reads both builds from query values on top of the defaults.
func DecodeBuilds(values url.Values) (schema.ParameterSet, schema.ParameterSet) {
	defaults := schema.DefaultParameters()
	return DecodeBuild(values, schema.Build1, defaults), DecodeBuild(values, schema.Build2, defaults)
}

// ParseQuery parses a raw query string, tolerating a leading '?'.
// Malformed pairs are skipped rather than failing the whole string.
func ParseQuery(raw string) url.Values {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if values == nil {
		values = url.Values{}
	}
	return values
}

// EncodeBuilds writes every field of both builds into query values.
func EncodeBuilds(p1, p2 schema.ParameterSet) url.Values {
	values := make(url.Values, 2*len(schema.Fields))
	for build, p := range map[schema.BuildID]schema.ParameterSet{schema.Build1: p1, schema.Build2: p2} {
		for _, f := range schema.Fields {
			values.Set(schema.QueryKey(build, f.Key), schema.FormatValue(f.Get(p)))
		}
	}
	return values
}

// EncodeQuery returns the shareable query string of both builds, build 1
// first and fields in schema order.
func EncodeQuery(p1, p2 schema.ParameterSet) string {
	return schema.EncodeOrdered(EncodeBuilds(p1, p2))
}
