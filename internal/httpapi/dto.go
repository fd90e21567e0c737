package httpapi

import (
	"encoding/json"

	"github.com/Proger1298/gaming-server/internal/model"
)

type mapSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type roadDTO struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1,omitempty"`
	Y1 *int `json:"y1,omitempty"`
}

type buildingDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type officeDTO struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

type mapDetail struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Roads     []roadDTO         `json:"roads"`
	Buildings []buildingDTO     `json:"buildings"`
	Offices   []officeDTO       `json:"offices"`
	LootTypes []json.RawMessage `json:"lootTypes"`
}

func buildMapDetail(m *model.Map) mapDetail {
	detail := mapDetail{ID: m.ID, Name: m.Name}

	for _, r := range m.Roads() {
		d := roadDTO{X0: r.Start.X, Y0: r.Start.Y}
		if r.IsHorizontal() {
			x1 := r.End.X
			d.X1 = &x1
		} else {
			y1 := r.End.Y
			d.Y1 = &y1
		}
		detail.Roads = append(detail.Roads, d)
	}
	detail.Roads = orEmptyRoads(detail.Roads)

	for _, b := range m.Buildings() {
		detail.Buildings = append(detail.Buildings, buildingDTO{
			X: b.Bounds.Position.X, Y: b.Bounds.Position.Y,
			W: b.Bounds.Size.Width, H: b.Bounds.Size.Height,
		})
	}
	detail.Buildings = orEmptyBuildings(detail.Buildings)

	for _, o := range m.Offices() {
		detail.Offices = append(detail.Offices, officeDTO{
			ID: o.ID, X: o.Position.X, Y: o.Position.Y,
			OffsetX: o.Offset.X, OffsetY: o.Offset.Y,
		})
	}
	detail.Offices = orEmptyOffices(detail.Offices)

	for _, lt := range m.LootTypes {
		detail.LootTypes = append(detail.LootTypes, lt.Raw)
	}
	if detail.LootTypes == nil {
		detail.LootTypes = []json.RawMessage{}
	}

	return detail
}

// orEmptyRoads/orEmptyBuildings/orEmptyOffices keep the JSON arrays "[]"
// rather than "null" for a map with none of a given feature, matching the
// original's json::array default (always present, possibly empty).
func orEmptyRoads(rs []roadDTO) []roadDTO {
	if rs == nil {
		return []roadDTO{}
	}
	return rs
}

func orEmptyBuildings(bs []buildingDTO) []buildingDTO {
	if bs == nil {
		return []buildingDTO{}
	}
	return bs
}

func orEmptyOffices(os []officeDTO) []officeDTO {
	if os == nil {
		return []officeDTO{}
	}
	return os
}

type joinRequest struct {
	UserName string `json:"userName"`
	MapID    string `json:"mapId"`
}

type joinResponse struct {
	AuthToken string `json:"authToken"`
	PlayerID  int    `json:"playerId"`
}

type actionRequest struct {
	Move string `json:"move"`
}

type tickRequest struct {
	TimeDelta int64 `json:"timeDelta"`
}

type bagItemDTO struct {
	ID   int `json:"id"`
	Type int `json:"type"`
}

type dogStateDTO struct {
	Position [2]float64   `json:"pos"`
	Speed    [2]float64   `json:"speed"`
	Direction string      `json:"dir"`
	Bag      []bagItemDTO `json:"bag"`
	Score    int          `json:"score"`
}

type lostObjectDTO struct {
	Type     int        `json:"type"`
	Position [2]float64 `json:"pos"`
}

type stateResponse struct {
	Players     map[string]dogStateDTO   `json:"players"`
	LostObjects map[string]lostObjectDTO `json:"lostObjects"`
}

type recordDTO struct {
	Name     string  `json:"name"`
	Score    int     `json:"score"`
	PlayTime float64 `json:"playTime"`
}

type playerEntryDTO struct {
	Name string `json:"name"`
}
