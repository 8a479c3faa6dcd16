package attendance

import "fmt"

// Category identifies one slot of the attendance metric vector.
type Category int

// Metric categories in vector order.
const (
	WorkDays Category = iota
	Absent
	PersonalLeave
	SickWithCertificate
	SickWithoutCertificate
	Maternity
	LateGrace
	LatePenalty
	OTLeave
	Suspension
	AnnualLeave
	OT25Hours
	OTOver25Hours
	HolidayWork
	HolidayOT
	NightShift
	MultiMachine

	// NumCategories is the length of the metric vector.
	NumCategories
)

var categoryLabels = [NumCategories]struct {
	key  string
	en   string
	thai string
}{
	{"work_days", "Work Days", "วันทำงาน"},
	{"absent", "Absent", "ขาดงาน"},
	{"personal_leave", "Personal Leave", "ลากิจ"},
	{"sick_with_cert", "Sick Leave (with cert)", "ลาป่วยมีใบรับรองแพทย์"},
	{"sick_without_cert", "Sick Leave (no cert)", "ลาป่วยไม่มีใบรับรองแพทย์"},
	{"maternity", "Maternity Leave", "ลาคลอด"},
	{"late_grace", "Late (grace)", "มาสายไม่เกิน 5 นาที"},
	{"late_penalty", "Late (penalty)", "มาสายเกิน 5 นาที"},
	{"ot_leave", "OT Leave", "ลาโอที"},
	{"suspension", "Suspension", "พักงาน"},
	{"annual_leave", "Annual Leave", "ลาพักร้อน"},
	{"ot_2_5h", "OT 2.5h", "โอที 2.5 ชม."},
	{"ot_over_2_5h", "OT >2.5h", "โอทีเกิน 2.5 ชม."},
	{"holiday_work", "Holiday Work", "ทำงานวันหยุด"},
	{"holiday_ot", "Holiday OT", "โอทีวันหยุด"},
	{"night_shift", "Night Shift", "กะดึก"},
	{"multi_machine", "Multi-Machine", "คุมหลายเครื่อง"},
}

// String returns the machine key of the category.
func (c Category) String() string {
	if c < 0 || c >= NumCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryLabels[c].key
}

// Name returns the English label.
func (c Category) Name() string {
	if c < 0 || c >= NumCategories {
		return c.String()
	}
	return categoryLabels[c].en
}

// ThaiName returns the Thai label used in source workbooks.
func (c Category) ThaiName() string {
	if c < 0 || c >= NumCategories {
		return c.String()
	}
	return categoryLabels[c].thai
}

// Categories returns all categories in vector order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ParseCategory resolves a machine key, English label, or Thai label.
func ParseCategory(s string) (Category, bool) {
	for i, l := range categoryLabels {
		if s == l.key || s == l.en || s == l.thai {
			return Category(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown metric category %q", text)
	}
	*c = parsed
	return nil
}

// Metrics is the fixed-length attendance vector of one observation or entity.
type Metrics [NumCategories]float64

// Add returns the elementwise sum of m and other.
func (m Metrics) Add(other Metrics) Metrics {
	for i := range m {
		m[i] += other[i]
	}
	return m
}

// Get returns the value of one category.
func (m Metrics) Get(c Category) float64 {
	return m[c]
}

// Total returns the sum across all categories.
func (m Metrics) Total() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// IsZero reports whether every slot is zero.
func (m Metrics) IsZero() bool {
	return m == Metrics{}
}
