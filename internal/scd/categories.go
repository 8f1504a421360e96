package scd

// Category is a severe chronic disease category.
type Category int

const (
	CategoryNone Category = iota
	CategoryBloodDisorder
	CategoryImmuneDisorder
	CategoryEndocrineDisorder
	CategoryNeurologicalDisorder
	CategoryCardiovascularDisorder
	CategoryRespiratoryDisorder
	CategoryGastrointestinalDisorder
	CategoryMusculoskeletalDisorder
	CategoryRenalDisorder
	CategoryCongenitalDisorder
)

// AllCategories lists every valid category, in numeric order.
func AllCategories() []Category {
	return []Category{
		CategoryBloodDisorder,
		CategoryImmuneDisorder,
		CategoryEndocrineDisorder,
		CategoryNeurologicalDisorder,
		CategoryCardiovascularDisorder,
		CategoryRespiratoryDisorder,
		CategoryGastrointestinalDisorder,
		CategoryMusculoskeletalDisorder,
		CategoryRenalDisorder,
		CategoryCongenitalDisorder,
	}
}

// IsValid reports whether the category is an actual disease category.
func (c Category) IsValid() bool { return c != CategoryNone }

func (c Category) String() string {
	switch c {
	case CategoryBloodDisorder:
		return "Blood Disorder"
	case CategoryImmuneDisorder:
		return "Immune System Disorder"
	case CategoryEndocrineDisorder:
		return "Endocrine Disorder"
	case CategoryNeurologicalDisorder:
		return "Neurological Disorder"
	case CategoryCardiovascularDisorder:
		return "Cardiovascular Disorder"
	case CategoryRespiratoryDisorder:
		return "Respiratory Disorder"
	case CategoryGastrointestinalDisorder:
		return "Gastrointestinal Disorder"
	case CategoryMusculoskeletalDisorder:
		return "Musculoskeletal Disorder"
	case CategoryRenalDisorder:
		return "Renal Disorder"
	case CategoryCongenitalDisorder:
		return "Other Congenital Disorder"
	default:
		return "No SCD Category"
	}
}
