package qtconf

import "strings"

func write(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
}

// RenderFeatures renders one "#define QT_FEATURE_<name> 1|-1" line per
// feature, in insertion order. An empty set renders as "".
func RenderFeatures(features FeatureSet) string {
	var sb strings.Builder
	for _, f := range features.items {
		value := "-1"
		if f.Enabled {
			value = "1"
		}
		write(&sb, "#define QT_FEATURE_", f.Name, " ", value, "\n")
	}
	return sb.String()
}

// RenderDefines renders one "#define <key> <value>" line per define. Values
// are inserted verbatim; anything malformed is left for the preprocessor.
func RenderDefines(defines DefineSet) string {
	var sb strings.Builder
	for _, d := range defines.items {
		write(&sb, "#define ", d.Key, " ", d.Value, "\n")
	}
	return sb.String()
}

// RenderConfigHeader renders a full configuration header: the feature block,
// a blank line, then the define block.
func RenderConfigHeader(features FeatureSet, defines DefineSet) string {
	return RenderFeatures(features) + "\n" + RenderDefines(defines)
}
