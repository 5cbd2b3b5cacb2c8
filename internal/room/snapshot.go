package room

import (
	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/pkg/protocol"
)

func (r *Room) snapshot() protocol.State {
	s := r.kitchen.State
	out := protocol.State{
		Tick:     r.tick,
		Phase:    s.Phase.String(),
		TimeLeft: s.TimeLeft.Milliseconds(),
		Score:    s.Score,
		MapHash:  s.MapHash,
		Players:  make(map[string]protocol.PlayerState),
		Stations: make(map[string]protocol.StationState, len(s.Stations)),
		Orders:   make([]protocol.OrderState, 0, len(s.Orders)),
	}
	for _, p := range s.Players.GetAllPlayers() {
		out.Players[p.ID] = protocol.PlayerState{
			ID:             p.ID,
			Name:           p.Name,
			Position:       protocol.Vec3{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z},
			RotationY:      p.RotationY,
			AnimationState: p.AnimationState,
			Connected:      p.Connected,
			HeldIngredient: p.HeldIngredient.String(),
			HoldingPlate:   p.HoldingPlate,
		}
	}
	for key, st := range s.Stations {
		out.Stations[key] = protocol.StationState{
			ID:                 st.ID,
			Type:               st.Type.String(),
			Ingredient:         st.Ingredient.String(),
			X:                  st.X,
			Z:                  st.Z,
			IsActive:           st.IsActive,
			Disabled:           st.Disabled,
			ProcessingRecipeID: st.ProcessingRecipeID,
			ProcessingTimeLeft: st.ProcessingTimeLeft.Milliseconds(),
			TotalProcessing:    st.TotalProcessingDuration.Milliseconds(),
			Board:              names(st.IngredientsOnBoard),
			HasDirtyPlate:      st.HasDirtyPlate,
		}
	}
	for _, o := range s.Orders {
		out.Orders = append(out.Orders, protocol.OrderState{
			ID:            o.ID,
			RecipeID:      o.RecipeID,
			Completed:     o.Completed,
			ChairID:       o.ChairID,
			CustomerType:  o.CustomerType,
			TimeLeft:      o.TimeLeft.Milliseconds(),
			TotalDuration: o.TotalDuration.Milliseconds(),
		})
	}
	return out
}

func names(ings []catalog.Ingredient) []string {
	out := make([]string, len(ings))
	for i, ing := range ings {
		out[i] = ing.String()
	}
	return out
}
