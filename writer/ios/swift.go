package ios

import (
	"path/filepath"
	"strconv"
	"text/template"
	"unicode"

	"github.com/iancoleman/strcase"

	"github.com/bleeding182/localizator/table"
	"github.com/bleeding182/localizator/writer"
)

// SwiftUtilFile is written into the output root when enabled.
const SwiftUtilFile = "Strings.swift"

const iosStringsUtilTemplate = `import Foundation
{{range $header := $.Headers}}
// {{$header}}
{{- end}}

// swiftlint:disable line_length
public struct Strings {
    {{- range $m := $.Members}}
    public static let {{.Name}} = Strings.localized("{{.Key}}", value: "{{.Value}}")
    {{- end}}
    {{- range $g := $.Groups}}

    public struct {{.Name}} {
        {{- range $m := $g.Members}}
        public static let {{.Name}} = Strings.localized("{{.Key}}", value: "{{.Value}}")
        {{- end}}
    }
    {{- end}}

    public static func localized(_ key: String, tableName: String? = nil, bundle: Bundle = Bundle.main, value: String, comment: String = "") -> String {
        return NSLocalizedString(key, tableName: tableName, bundle: bundle, value: value, comment: comment)
    }
}
`

var utilTemplate = template.Must(template.New("util").Parse(iosStringsUtilTemplate))

// swiftKeywords need backticks when used as a member name.
var swiftKeywords = map[string]struct{}{
	"associatedtype": {}, "class": {}, "deinit": {}, "enum": {}, "extension": {}, "fileprivate": {},
	"func": {}, "import": {}, "init": {}, "inout": {}, "internal": {}, "let": {}, "open": {},
	"operator": {}, "private": {}, "precedencegroup": {}, "protocol": {}, "public": {}, "rethrows": {},
	"static": {}, "struct": {}, "subscript": {}, "typealias": {}, "var": {}, "break": {}, "case": {},
	"catch": {}, "continue": {}, "default": {}, "defer": {}, "do": {}, "else": {}, "fallthrough": {},
	"for": {}, "guard": {}, "if": {}, "in": {}, "repeat": {}, "return": {}, "throw": {}, "switch": {},
	"where": {}, "while": {}, "as": {}, "await": {}, "false": {}, "is": {}, "nil": {}, "self": {},
	"super": {}, "throws": {}, "true": {}, "try": {}, "Any": {}, "Self": {}, "Type": {}, "Protocol": {},
}

type swiftModel struct {
	Headers []string
	Members []swiftMember
	Groups  []swiftGroup
}

type swiftGroup struct {
	Name    string
	Members []swiftMember
	names   names
}

type swiftMember struct {
	Name  string
	Key   string
	Value string
}

// names hands out unique Swift identifiers within one scope.
type names map[string]struct{}

// claim returns name, or name with the first free numeric suffix when taken.
func (n names) claim(name string) string {
	unique := name
	for i := 2; ; i++ {
		if _, ok := n[unique]; !ok {
			break
		}
		unique = name + strconv.Itoa(i)
	}
	n[unique] = struct{}{}
	return unique
}

func isSwiftKeyword(name string) bool {
	_, ok := swiftKeywords[name]
	return ok
}

// identifierName prefixes names that would start with a digit.
func identifierName(name string) string {
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return "_" + name
	}
	return name
}

// memberName turns a key identifier into a lower camel case Swift name.
func memberName(identifier string) string {
	return identifierName(strcase.ToLowerCamel(identifier))
}

// escapeMember backticks keywords.
func escapeMember(name string) string {
	if isSwiftKeyword(name) {
		return "`" + name + "`"
	}
	return name
}

// typeName turns a key group into an upper camel case Swift type name.
func typeName(group string) string {
	name := identifierName(strcase.ToCamel(group))
	if isSwiftKeyword(name) {
		return name + "_"
	}
	return name
}

// exportSwiftUtil writes accessors for every key, grouped by the key's
// group prefix in order of first appearance, with the Base value as default.
func (w *Writer) exportSwiftUtil(t *table.Table, root string) error {
	model := &swiftModel{Headers: w.headers()}
	groups := make(map[string]int)
	// localized is the helper function declared on Strings.
	top := names{"localized": {}}
	types := names{}

	for _, row := range t.Rows {
		if row.Key() == "" {
			continue
		}
		key := writer.CompositeKeyOf(row.Key())
		value, _ := row.Value(1)
		m := swiftMember{Key: key.Original(), Value: EscapeValue(value)}

		if key.Group() == "" {
			m.Name = escapeMember(top.claim(memberName(key.Identifier())))
			model.Members = append(model.Members, m)
			continue
		}
		i, ok := groups[key.Group()]
		if !ok {
			i = len(model.Groups)
			groups[key.Group()] = i
			model.Groups = append(model.Groups, swiftGroup{Name: types.claim(typeName(key.Group())), names: names{}})
		}
		m.Name = escapeMember(model.Groups[i].names.claim(memberName(key.Identifier())))
		model.Groups[i].Members = append(model.Groups[i].Members, m)
	}

	return writer.Render(filepath.Clean(root), SwiftUtilFile, utilTemplate, model)
}
