package access

// Level is the security rank of an authenticated user. Lower is more privileged.
type Level int

const (
	LevelAnonymous Level = 0
	LevelAdmin     Level = 1
	LevelManager   Level = 2
	LevelStaff     Level = 3
)

func (l Level) Valid() bool {
	return l >= LevelAdmin && l <= LevelStaff
}

func (l Level) String() string {
	switch l {
	case LevelAdmin:
		return "admin"
	case LevelManager:
		return "manager"
	case LevelStaff:
		return "staff"
	default:
		return "anonymous"
	}
}

type Operation string

const (
	AddEmployee      Operation = "add_employee"
	AddPayRaise      Operation = "add_payraise"
	ListEmployees    Operation = "list_employees"
	ListAllPayRaises Operation = "list_all_payraises"
	ListOwnPayRaises Operation = "list_own_payraises"
)

// Operations returns every operation known to the policy in declaration order.
func Operations() []Operation {
	return []Operation{AddEmployee, AddPayRaise, ListEmployees, ListAllPayRaises, ListOwnPayRaises}
}

// grants is the whole policy. Anything not listed here is denied.
var grants = map[Level]map[Operation]struct{}{
	LevelAdmin: {
		AddEmployee:      {},
		AddPayRaise:      {},
		ListEmployees:    {},
		ListOwnPayRaises: {},
	},
	LevelManager: {
		ListAllPayRaises: {},
		ListEmployees:    {},
		AddPayRaise:      {},
		ListOwnPayRaises: {},
	},
	LevelStaff: {
		ListOwnPayRaises: {},
		AddPayRaise:      {},
	},
}

type Checker interface {
	Check(level Level, op Operation) bool
	Allowed(level Level) []Operation
}

type TablePolicy struct{}

func NewPolicy() Checker {
	return &TablePolicy{}
}

func (p *TablePolicy) Check(level Level, op Operation) bool {
	ops, ok := grants[level]
	if !ok {
		return false
	}
	_, ok = ops[op]
	return ok
}

func (p *TablePolicy) Allowed(level Level) []Operation {
	var allowed []Operation
	for _, op := range Operations() {
		if p.Check(level, op) {
			allowed = append(allowed, op)
		}
	}
	return allowed
}
