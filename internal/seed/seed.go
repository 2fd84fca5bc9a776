// Package seed installs the stock catalog on an empty database so a fresh
// deployment has something to quote against.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
)

type materialStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, m *materials.Material) (*materials.Material, error)
}

func base(t materials.ProductType, name, desc string) *materials.Material {
	return &materials.Material{
		Type:            t,
		Name:            name,
		Description:     desc,
		PleatMultiplier: 2.0,
		FixedHeightM:    2.8,
		MarginPct:       30,
		FreightPct:      5,
		DefaultQuantity: 1,
		DefaultOpening:  1,
	}
}

// Run seeds the seven stock product types when the catalog is empty. It is a
// no-op otherwise.
func Run(ctx context.Context, store materialStore, log *slog.Logger) error {
	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count materials: %w", err)
	}
	if n > 0 {
		return nil
	}

	cortina := base(materials.TypeCurtain, "Cortina", "Cortina confeccionada con ancho fijo de 270 cm.")
	cortina.FabricPriceM = 25
	cortina.MakePriceM = 8

	visillo := base(materials.TypeSheer, "Visillo", "Tejido ligero que deja pasar la luz pero otorga privacidad.")
	visillo.FabricPriceM = 25
	visillo.MakePriceM = 8

	oscurante := base(materials.TypeBlackout, "Oscurante", "Bloquea gran parte de la luz, ideal para dormitorios.")
	oscurante.FabricPriceM2 = 35
	oscurante.MakePriceM2 = 10

	opacante := base(materials.TypeOpaque, "Opacante", "Bloqueo total de luz (Blackout). Maxima oscuridad.")
	opacante.FabricPriceM2 = 45
	opacante.MakePriceM2 = 12

	plain := []*materials.Material{cortina, visillo, oscurante, opacante}
	ids := make(map[string]string, len(plain))
	for _, m := range plain {
		created, err := store.Create(ctx, m)
		if err != nil {
			return fmt.Errorf("seed %s: %w", m.Name, err)
		}
		ids[m.Name] = created.ID
	}

	combis := []*materials.Material{
		base(materials.TypeCombined, "Visillo + Oscurante", "Combinacion de visillo con tejido oscurante."),
		base(materials.TypeCombined, "Visillo + Opacante", "Combinacion de visillo con tejido opacante."),
	}
	combis[0].ComponentIDs = []string{ids["Visillo"], ids["Oscurante"]}
	combis[1].ComponentIDs = []string{ids["Visillo"], ids["Opacante"]}

	custom := base(materials.TypeCustom, "Personalizado", "Combinacion personalizada sin calculo automatico.")

	for _, m := range append(combis, custom) {
		if _, err := store.Create(ctx, m); err != nil {
			return fmt.Errorf("seed %s: %w", m.Name, err)
		}
	}

	log.Info("seeded default catalog", "materials", len(plain)+len(combis)+1)
	return nil
}
