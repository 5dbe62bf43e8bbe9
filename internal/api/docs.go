package api

import (
	"encoding/json"
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"restaurant-menu-service/internal/domain"
)

// OpenAPI handles GET <base>/docs/openapi.json.
func (h *HTTPHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, OpenAPIDocument(h.basePath, h.resources))
}

// DocsUI serves Swagger UI under <base>/docs/ pointed at the generated document.
func (h *HTTPHandler) DocsUI() http.HandlerFunc {
	return httpSwagger.Handler(httpSwagger.URL(h.basePath + "/docs/openapi.json"))
}

// docsRedirect sends <base>/docs to the UI entry page.
func (h *HTTPHandler) docsRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.basePath+"/docs/index.html", http.StatusMovedPermanently)
}

// OpenAPIDocument describes every resource route as an OpenAPI 3.0 document.
func OpenAPIDocument(basePath string, resources []*domain.Resource) map[string]any {
	paths := map[string]any{}
	schemas := map[string]any{
		"Envelope": map[string]any{
			"type":     "object",
			"required": []string{"ok", "message"},
			"properties": map[string]any{
				"ok":      map[string]any{"type": "boolean"},
				"message": map[string]any{"type": "string"},
				"data":    map[string]any{},
				"errors": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"field":  map[string]any{"type": "string"},
							"reason": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}

	for _, res := range resources {
		name := schemaName(res)
		schemas[name] = rowSchema(res)
		schemas[name+"Create"] = bodySchema(res.CreateRules())
		schemas[name+"Update"] = bodySchema(res.UpdateRules())

		tag := []string{res.Plural}
		collection := basePath + "/" + res.Path
		paths[collection] = map[string]any{
			"get": operation(tag, "List "+res.Plural+", newest first", nil, map[string]string{
				"200": "Array of " + res.Plural,
				"500": "Storage failure",
			}),
			"post": operation(tag, "Create a "+res.Singular, ref(name+"Create"), map[string]string{
				"201": "Created " + res.Singular,
				"400": "Validation failure",
				"500": "Storage failure",
			}),
		}
		paths[collection+"/{id}"] = map[string]any{
			"parameters": []any{map[string]any{
				"name":     "id",
				"in":       "path",
				"required": true,
				"schema":   map[string]any{"type": "integer", "minimum": 1},
			}},
			"get": operation(tag, "Get a "+res.Singular+" by id", nil, map[string]string{
				"200": "The " + res.Singular,
				"400": "Invalid id",
				"404": "Not found",
				"500": "Storage failure",
			}),
			"put": operation(tag, "Partially update a "+res.Singular, ref(name+"Update"), map[string]string{
				"200": "Updated " + res.Singular,
				"400": "Validation failure or nothing to update",
				"404": "Not found",
				"500": "Storage failure",
			}),
			"delete": operation(tag, "Delete a "+res.Singular, nil, map[string]string{
				"200": "Deleted",
				"400": "Invalid id",
				"404": "Not found",
				"409": "Still referenced by other records",
				"500": "Storage failure",
			}),
		}
	}

	paths[basePath+"/health"] = map[string]any{
		"get": operation([]string{"health"}, "Check database reachability", nil, map[string]string{
			"200": "Healthy",
			"503": "Database unreachable",
		}),
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "Restaurant menu API",
			"version":     "1.0.0",
			"description": "CRUD endpoints for categories, products, ingredients and product ingredients.",
		},
		"paths":      paths,
		"components": map[string]any{"schemas": schemas},
	}
}

func schemaName(res *domain.Resource) string {
	parts := strings.FieldsFunc(res.Path, func(r rune) bool { return r == '-' || r == '_' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func operation(tags []string, summary string, body map[string]any, responses map[string]string) map[string]any {
	op := map[string]any{
		"tags":    tags,
		"summary": summary,
	}
	if body != nil {
		op["requestBody"] = map[string]any{
			"required": true,
			"content":  map[string]any{"application/json": map[string]any{"schema": body}},
		}
	}
	resp := make(map[string]any, len(responses))
	for code, desc := range responses {
		resp[code] = map[string]any{
			"description": desc,
			"content":     map[string]any{"application/json": map[string]any{"schema": ref("Envelope")}},
		}
	}
	op["responses"] = resp
	return op
}

func fieldSchema(rule domain.Rule) map[string]any {
	s := map[string]any{"type": rule.Kind.String()}
	if rule.Kind == domain.KindInteger {
		s["minimum"] = 1
	}
	if rule.Nullable {
		s["nullable"] = true
	}
	for _, c := range strings.Split(rule.Tag, ",") {
		key, val, _ := strings.Cut(c, "=")
		switch key {
		case "gt":
			s["minimum"] = json.Number(val)
			s["exclusiveMinimum"] = true
		case "gte":
			s["minimum"] = json.Number(val)
		case "lt":
			s["maximum"] = json.Number(val)
			s["exclusiveMaximum"] = true
		case "max":
			s["maxLength"] = json.Number(val)
		case "required":
			if rule.Kind == domain.KindString {
				s["minLength"] = 1
			}
		}
	}
	return s
}

func bodySchema(rules []domain.Rule) map[string]any {
	props := map[string]any{}
	required := []string{}
	for _, rule := range rules {
		props[rule.Field] = fieldSchema(rule)
		if rule.Required {
			required = append(required, rule.Field)
		}
	}
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func rowSchema(res *domain.Resource) map[string]any {
	s := bodySchema(res.Rules)
	props := s["properties"].(map[string]any)
	props["id"] = map[string]any{"type": "integer"}
	props["created_at"] = map[string]any{"type": "string", "format": "date-time"}
	props["updated_at"] = map[string]any{"type": "string", "format": "date-time"}
	for _, j := range res.Joins {
		props[j.Alias] = map[string]any{"type": "string", "nullable": true, "readOnly": true}
	}
	delete(s, "required")
	return s
}
