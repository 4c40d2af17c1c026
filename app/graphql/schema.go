// Package graphql exposes a read-only GraphQL view of the catalog and the
// site status.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/app/services"
	gqlhttp "github.com/shashiranjanraj/storefront/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":           &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"discount":        &graphql.Field{Type: graphql.Float},
		"discountedPrice": &graphql.Field{Type: graphql.Float},
		"description":     &graphql.Field{Type: graphql.String},
		"image":           &graphql.Field{Type: graphql.String},
		"category":        &graphql.Field{Type: graphql.String},
		"stock":           &graphql.Field{Type: graphql.Int},
		"specifications":  &graphql.Field{Type: graphql.String},
		"createdAt":       &graphql.Field{Type: graphql.DateTime},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var siteStatusType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SiteStatus",
	Fields: graphql.Fields{
		"enabled":       &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"showDiscounts": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"message":       &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the schema over the catalog and settings services.
func NewSchema(catalog *services.CatalogService, settings *services.SettingsService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"discounted": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if discounted, _ := p.Args["discounted"].(bool); discounted {
						return catalog.DiscountedProducts(p.Context)
					}
					return catalog.Products(p.Context)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					return catalog.Product(p.Context, uint(id))
				},
			},
			"search": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"q":        &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					q, _ := p.Args["q"].(string)
					category, _ := p.Args["category"].(string)
					return catalog.Search(p.Context, q, category)
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return catalog.Categories(p.Context)
				},
			},
			"siteStatus": &graphql.Field{
				Type: siteStatusType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return settings.SiteStatus(p.Context)
				},
			},
		},
	})
	return gqlhttp.NewSchema(query)
}
