package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMineComposition(t *testing.T) {
	description := "Pasta natural. Ingredientes Naturales: Aloe Vera, Menta, Aceite de Coco " +
		"(No Contiene Químicos Nocivos): -Sin Flúor -Sin Parabenos -Sin Sulfatos Vegana y cruelty free."

	comp := mineComposition(description)

	assert.Equal(t, []string{"Aloe Vera", "Menta", "Aceite de Coco"}, comp.NaturalIngredients)
	assert.Equal(t, []string{"Flúor", "Parabenos", "Sulfatos"}, comp.ExcludedChemicals)
}

func TestMineComposition_OnlyIngredients(t *testing.T) {
	comp := mineComposition("Ingredientes Naturales: Caléndula, Manzanilla")

	assert.Equal(t, []string{"Caléndula", "Manzanilla"}, comp.NaturalIngredients)
	assert.Empty(t, comp.ExcludedChemicals)
}

func TestMineComposition_NoMarkers(t *testing.T) {
	comp := mineComposition("Una descripción sin secciones de composición.")

	assert.Empty(t, comp.NaturalIngredients)
	assert.Empty(t, comp.ExcludedChemicals)
}

func TestMineComposition_EmptyItemsDropped(t *testing.T) {
	comp := mineComposition("Ingredientes Naturales: Aloe, , Menta,")

	assert.Equal(t, []string{"Aloe", "Menta"}, comp.NaturalIngredients)
}
