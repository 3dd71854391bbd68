package schema

var (
	stringType  = NewType("String", TypeKindScalar, "The `String` scalar type represents textual data, represented as UTF-8 character sequences.")
	intType     = NewType("Int", TypeKindScalar, "The `Int` scalar type represents non-fractional signed whole numeric values.")
	floatType   = NewType("Float", TypeKindScalar, "The `Float` scalar type represents signed double-precision fractional values.")
	booleanType = NewType("Boolean", TypeKindScalar, "The `Boolean` scalar type represents `true` or `false`.")
	idType      = NewType("ID", TypeKindScalar, "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.")
)

var (
	includeDirective = conditionDirective("include",
		"Directs the executor to include this field or fragment only when the `if` argument is true.",
		"Included when true.")
	skipDirective = conditionDirective("skip",
		"Directs the executor to skip this field or fragment when the `if` argument is true.",
		"Skipped when true.")
)

// conditionDirective builds @include or @skip: a required Boolean `if`
// argument on fields and fragments.
func conditionDirective(name, description, ifDescription string) *Directive {
	d := NewDirective(name, description).
		AddArgument(NewInputValue("if", ifDescription, NonNullType(NamedType(booleanType.Name))))
	d.Locations = []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"}
	return d
}

// IsBuiltinScalar reports whether name is one of the scalars every schema has.
func IsBuiltinScalar(name string) bool {
	switch name {
	case stringType.Name, intType.Name, floatType.Name, booleanType.Name, idType.Name:
		return true
	}
	return false
}

func isBuiltinDirective(name string) bool {
	return name == includeDirective.Name || name == skipDirective.Name
}
