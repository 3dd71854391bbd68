package introspection

import (
	schema "github.com/hanpama/bookgraph/internal/schema"
)

// extendSchemaWithIntrospection returns a copy of original with the
// introspection types registered and __schema and __type added to the query
// root. original is left untouched.
func extendSchemaWithIntrospection(original *schema.Schema) *schema.Schema {
	extended := &schema.Schema{
		QueryType:        original.QueryType,
		MutationType:     original.MutationType,
		SubscriptionType: original.SubscriptionType,
		Types:            make(map[string]*schema.Type, len(original.Types)+len(metaTypes)),
		Directives:       original.Directives,
		Description:      original.Description,
	}
	for name, typ := range original.Types {
		extended.Types[name] = typ
	}
	for _, build := range metaTypes {
		extended.AddType(build())
	}

	if query := original.GetQueryType(); query != nil {
		root := *query
		root.Fields = append(append([]*schema.Field{}, query.Fields...),
			schema.NewField("__schema", "Access the current type schema of this server.", required("__Schema")),
			schema.NewField("__type", "Request the type information of a single type.", named("__Type")).
				AddArgument(schema.NewInputValue("name", "The name of the type to look up.", required("String"))),
		)
		extended.Types[query.Name] = &root
	}
	return extended
}

var metaTypes = []func() *schema.Type{
	schemaMeta,
	typeMeta,
	fieldMeta,
	inputValueMeta,
	enumValueMeta,
	directiveMeta,
	typeKindMeta,
	directiveLocationMeta,
}

func named(name string) *schema.TypeRef    { return schema.NamedType(name) }
func required(name string) *schema.TypeRef { return schema.NonNullType(schema.NamedType(name)) }

// listOf is [name!], requiredList is [name!]!.
func listOf(name string) *schema.TypeRef       { return schema.ListType(required(name)) }
func requiredList(name string) *schema.TypeRef { return schema.NonNullType(listOf(name)) }

func includeDeprecated() *schema.InputValue {
	return schema.NewInputValue("includeDeprecated", "", named("Boolean")).SetDefault(false)
}

func object(name, description string, fields ...*schema.Field) *schema.Type {
	t := schema.NewType(name, schema.TypeKindObject, description)
	for _, f := range fields {
		t.AddField(f)
	}
	return t
}

func enum(name string, values ...string) *schema.Type {
	t := schema.NewType(name, schema.TypeKindEnum, "")
	for _, v := range values {
		t.AddEnumValue(schema.NewEnumValue(v, ""))
	}
	return t
}

func schemaMeta() *schema.Type {
	return object("__Schema", "A GraphQL Schema defines the capabilities of a GraphQL server.",
		schema.NewField("types", "A list of all types supported by this server.", requiredList("__Type")),
		schema.NewField("queryType", "The type that query operations will be rooted at.", required("__Type")),
		schema.NewField("mutationType", "If this server supports mutation, the type that mutation operations will be rooted at.", named("__Type")),
		schema.NewField("subscriptionType", "If this server support subscription, the type that subscription operations will be rooted at.", named("__Type")),
		schema.NewField("directives", "A list of all directives supported by this server.", requiredList("__Directive")),
		schema.NewField("description", "A description of the schema.", named("String")),
	)
}

func typeMeta() *schema.Type {
	return object("__Type", "The fundamental unit of any GraphQL Schema is the type.",
		schema.NewField("kind", "The kind of type.", required("__TypeKind")),
		schema.NewField("name", "The name of the type.", named("String")),
		schema.NewField("description", "The description of the type.", named("String")),
		schema.NewField("fields", "", listOf("__Field")).AddArgument(includeDeprecated()),
		schema.NewField("interfaces", "", listOf("__Type")),
		schema.NewField("possibleTypes", "", listOf("__Type")),
		schema.NewField("enumValues", "", listOf("__EnumValue")).AddArgument(includeDeprecated()),
		schema.NewField("inputFields", "", listOf("__InputValue")).AddArgument(includeDeprecated()),
		schema.NewField("ofType", "", named("__Type")),
		schema.NewField("specifiedByURL", "", named("String")),
		schema.NewField("isOneOf", "", named("Boolean")),
	)
}

func fieldMeta() *schema.Type {
	return object("__Field", "",
		schema.NewField("name", "", required("String")),
		schema.NewField("description", "", named("String")),
		schema.NewField("args", "", requiredList("__InputValue")).AddArgument(includeDeprecated()),
		schema.NewField("type", "", required("__Type")),
		schema.NewField("isDeprecated", "", required("Boolean")),
		schema.NewField("deprecationReason", "", named("String")),
	)
}

func inputValueMeta() *schema.Type {
	return object("__InputValue", "",
		schema.NewField("name", "", required("String")),
		schema.NewField("description", "", named("String")),
		schema.NewField("type", "", required("__Type")),
		schema.NewField("defaultValue", "", named("String")),
		schema.NewField("isDeprecated", "", required("Boolean")),
		schema.NewField("deprecationReason", "", named("String")),
	)
}

func enumValueMeta() *schema.Type {
	return object("__EnumValue", "",
		schema.NewField("name", "", required("String")),
		schema.NewField("description", "", named("String")),
		schema.NewField("isDeprecated", "", required("Boolean")),
		schema.NewField("deprecationReason", "", named("String")),
	)
}

func directiveMeta() *schema.Type {
	return object("__Directive", "",
		schema.NewField("name", "", required("String")),
		schema.NewField("description", "", named("String")),
		schema.NewField("isRepeatable", "", required("Boolean")),
		schema.NewField("locations", "", requiredList("__DirectiveLocation")),
		schema.NewField("args", "", requiredList("__InputValue")).AddArgument(includeDeprecated()),
	)
}

func typeKindMeta() *schema.Type {
	return enum("__TypeKind",
		"SCALAR", "OBJECT", "INTERFACE", "UNION", "ENUM", "INPUT_OBJECT", "LIST", "NON_NULL")
}

func directiveLocationMeta() *schema.Type {
	return enum("__DirectiveLocation",
		"QUERY", "MUTATION", "SUBSCRIPTION", "FIELD",
		"FRAGMENT_DEFINITION", "FRAGMENT_SPREAD", "INLINE_FRAGMENT", "VARIABLE_DEFINITION",
		"SCHEMA", "SCALAR", "OBJECT", "FIELD_DEFINITION", "ARGUMENT_DEFINITION",
		"INTERFACE", "UNION", "ENUM", "ENUM_VALUE", "INPUT_OBJECT", "INPUT_FIELD_DEFINITION")
}
