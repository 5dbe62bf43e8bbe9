package domain

// The four menu resources. Field names match the storage columns and the
// JSON keys clients send and receive.

var Categories = &Resource{
	Path:     "categorias",
	Table:    "categorias",
	Singular: "category",
	Plural:   "categories",
	Rules: []Rule{
		{Field: "nombre", Kind: KindString, Required: true, Tag: "required,max=100"},
	},
}

var Products = &Resource{
	Path:     "productos",
	Table:    "productos",
	Singular: "product",
	Plural:   "products",
	Rules: []Rule{
		{Field: "categoria_id", Kind: KindInteger, Required: true, Tag: "gt=0"},
		{Field: "nombre", Kind: KindString, Required: true, Tag: "required,max=100"},
		{Field: "descripcion", Kind: KindString, Nullable: true, Tag: "max=255"},
		{Field: "precio", Kind: KindDecimal, Required: true, Tag: "gte=0,lt=100000000"},
		{Field: "disponible", Kind: KindBoolean},
	},
	Joins: []Join{
		{ForeignKey: "categoria_id", Table: "categorias", LabelColumn: "nombre", Alias: "categoria"},
	},
	Coercions: map[string]Coercion{
		"disponible": BoolToSmallint,
	},
}

var Ingredients = &Resource{
	Path:     "ingredientes",
	Table:    "ingredientes",
	Singular: "ingredient",
	Plural:   "ingredients",
	Rules: []Rule{
		{Field: "nombre", Kind: KindString, Required: true, Tag: "required,max=100"},
		{Field: "perecedero", Kind: KindBoolean},
	},
	Coercions: map[string]Coercion{
		"perecedero": BoolToSmallint,
	},
}

// ProductIngredients is the product/ingredient junction. Duplicate pairs are allowed.
var ProductIngredients = &Resource{
	Path:     "producto-ingrediente",
	Table:    "producto_ingrediente",
	Singular: "product ingredient",
	Plural:   "product ingredients",
	Rules: []Rule{
		{Field: "producto_id", Kind: KindInteger, Required: true, Tag: "gt=0"},
		{Field: "ingrediente_id", Kind: KindInteger, Required: true, Tag: "gt=0"},
		{Field: "cantidad_usada", Kind: KindFloat, Required: true, Tag: "gt=0"},
	},
	Joins: []Join{
		{ForeignKey: "producto_id", Table: "productos", LabelColumn: "nombre", Alias: "producto"},
		{ForeignKey: "ingrediente_id", Table: "ingredientes", LabelColumn: "nombre", Alias: "ingrediente"},
	},
}

// MenuResources lists every resource in route registration order.
func MenuResources() []*Resource {
	return []*Resource{Categories, Products, Ingredients, ProductIngredients}
}
