package reconcile

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

// Catalog recetas de un negocio indexadas para resolver líneas de orden.
// Se carga una vez por orden.
type Catalog struct {
	recipes []*entity.Recipe
	byID    map[string]*entity.Recipe
	byName  map[string][]*entity.Recipe
}

// LoadCatalog lee las recetas del negocio.
func LoadCatalog(ctx context.Context, repo repository.RecipeRepository, businessID string) (*Catalog, error) {
	recipes, err := repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("cargar catálogo: %w", err)
	}
	return NewCatalog(recipes), nil
}

// NewCatalog indexa las recetas conservando su orden.
func NewCatalog(recipes []*entity.Recipe) *Catalog {
	c := &Catalog{
		recipes: recipes,
		byID:    make(map[string]*entity.Recipe, len(recipes)),
		byName:  make(map[string][]*entity.Recipe, len(recipes)),
	}
	for _, r := range recipes {
		if r == nil {
			continue
		}
		c.byID[r.ID] = r
		key := normalizeName(r.Name)
		c.byName[key] = append(c.byName[key], r)
	}
	return c
}

// Len número de recetas del catálogo.
func (c *Catalog) Len() int { return len(c.byID) }

// ResolveLineItem busca la receta de la línea.
// Con nombre de variación se busca primero entre las variaciones de la receta homónima
// y luego entre las variaciones de todo el catálogo; si no aparece, se resuelve por nombre.
func (c *Catalog) ResolveLineItem(li entity.LineItem) (*entity.Recipe, error) {
	name := normalizeName(li.Name)
	if vn := normalizeName(li.VariationName); vn != "" {
		for _, parent := range c.byName[name] {
			if v := c.variationNamed(parent, vn); v != nil {
				return v, nil
			}
		}
		for _, parent := range c.recipes {
			if v := c.variationNamed(parent, vn); v != nil {
				return v, nil
			}
		}
	}
	if matches := c.byName[name]; len(matches) > 0 {
		return matches[0], nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnresolvedRecipe, li.Name)
}

func (c *Catalog) variationNamed(parent *entity.Recipe, name string) *entity.Recipe {
	if parent == nil {
		return nil
	}
	for _, id := range parent.VariationIDs {
		if v, ok := c.byID[id]; ok && normalizeName(v.Name) == name {
			return v
		}
	}
	return nil
}

// ResolveModifier busca en la receta la definición del modificador con ese nombre.
func (c *Catalog) ResolveModifier(recipe *entity.Recipe, name string) (entity.Modifier, bool) {
	if recipe == nil {
		return entity.Modifier{}, false
	}
	key := normalizeName(name)
	for _, m := range recipe.Modifiers {
		if normalizeName(m.Name) == key {
			return m, true
		}
	}
	return entity.Modifier{}, false
}

// normalizeName compara nombres sin distinguir mayúsculas, forma Unicode ni espacios en los extremos.
func normalizeName(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
