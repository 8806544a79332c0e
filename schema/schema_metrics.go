package schema

// ParamsRenderModel contains all processed data needed for displaying the parameter schema.
type ParamsRenderModel struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Groups      []ParamsGroup `json:"groups"`
	Formula     []string      `json:"formula"`
	Unused      []string      `json:"unused"`
	Series      []SeriesStyle `json:"series"`
}

// ParamsGroup is one semantic group of fields with its description.
type ParamsGroup struct {
	Group   FieldGroup `json:"group"`
	Purpose string     `json:"purpose"`
	Fields  []Field    `json:"fields"`
}

// GroupPurposes describes each field group for display.
var GroupPurposes = map[FieldGroup]string{
	GroupBase:     "Strength before any bonus",
	GroupBonus:    "Additive strength bonuses, summed then applied once",
	GroupModifier: "Sequential modifiers applied after bonuses",
	GroupCritical: "Critical damage modifiers",
}

// AllGroups lists the field groups in schema order.
var AllGroups = []FieldGroup{GroupBase, GroupBonus, GroupModifier, GroupCritical}
