package catalog

// OpenAPIVersion selects the OpenAPI profile. The zero value is 3.1.
type OpenAPIVersion string

const (
	OpenAPI31 OpenAPIVersion = "3.1"
	OpenAPI30 OpenAPIVersion = "3.0"
)

// OpenAPISpec references an OpenAPI description served at path.
func OpenAPISpec(path string, version OpenAPIVersion) SpecRef {
	if version == "" {
		version = OpenAPI31
	}
	return SpecRef{
		Rel:  RelServiceDesc,
		Kind: KindOpenAPI,
		LinkObject: LinkObject{
			Href:    path,
			Type:    "application/vnd.oai.openapi+json",
			Profile: Values{"https://spec.openapis.org/oas/" + string(version)},
			Title:   "OpenAPI " + string(version) + " spec",
		},
	}
}

// GraphQLFormat selects how a GraphQL schema is published. The zero value is
// SDL.
type GraphQLFormat string

const (
	GraphQLSDL           GraphQLFormat = "sdl"
	GraphQLIntrospection GraphQLFormat = "introspection"
)

// GraphQLSchemaSpec references a GraphQL schema served at path.
func GraphQLSchemaSpec(path string, format GraphQLFormat) SpecRef {
	ref := SpecRef{
		Rel:  RelServiceDesc,
		Kind: KindGraphQL,
		LinkObject: LinkObject{
			Href:  path,
			Type:  "application/graphql",
			Title: "GraphQL schema",
		},
	}
	if format == GraphQLIntrospection {
		ref.Type = "application/json"
		ref.Profile = Values{"https://spec.graphql.org/introspection"}
		ref.Title = "GraphQL introspection result"
	}
	return ref
}

// AsyncAPIVersion selects the AsyncAPI profile. The zero value is 3.0.
type AsyncAPIVersion string

const (
	AsyncAPI30 AsyncAPIVersion = "3.0"
	AsyncAPI20 AsyncAPIVersion = "2.0"
)

// AsyncAPISpec references an AsyncAPI document served at path.
func AsyncAPISpec(path string, version AsyncAPIVersion) SpecRef {
	if version == "" {
		version = AsyncAPI30
	}
	return SpecRef{
		Rel:  RelServiceDesc,
		Kind: KindAsyncAPI,
		LinkObject: LinkObject{
			Href:    path,
			Type:    "application/vnd.aai.asyncapi+json",
			Profile: Values{"https://www.asyncapi.com/definitions/" + string(version)},
			Title:   "AsyncAPI " + string(version) + " spec",
		},
	}
}

// JSONSchemaDraft selects the JSON Schema dialect. The zero value is
// 2020-12.
type JSONSchemaDraft string

const (
	JSONSchema202012  JSONSchemaDraft = "2020-12"
	JSONSchema201909  JSONSchemaDraft = "2019-09"
	JSONSchemaDraft07 JSONSchemaDraft = "07"
)

// JSONSchemaSpec references a JSON Schema served at path.
func JSONSchemaSpec(path string, draft JSONSchemaDraft) SpecRef {
	if draft == "" {
		draft = JSONSchema202012
	}
	return SpecRef{
		Rel:  RelServiceDesc,
		Kind: KindJSONSchema,
		LinkObject: LinkObject{
			Href:    path,
			Type:    "application/schema+json",
			Profile: Values{"https://json-schema.org/draft/" + string(draft) + "/schema"},
			Title:   "JSON Schema (draft " + string(draft) + ")",
		},
	}
}
