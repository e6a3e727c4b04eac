package ledger

const (
	RoleLaborer        = "laborer"
	RoleHanger         = "hanger"
	RoleFinisher       = "finisher"
	RoleForeman        = "foreman"
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"

	PayTypeHourly = "hourly"
	PayTypeSalary = "salary"

	CoatTape    = "tape"
	CoatBed     = "bed"
	CoatSkim    = "skim"
	CoatLevel5  = "level5"
	CoatTexture = "texture"
	CoatSand    = "sand"

	// CoatHang is the sentinel coat for hangers. Its completion percentage is
	// reported as the new cumulative total, not an increment.
	CoatHang = "hang"

	PieceStatusActive    = "active"
	PieceStatusCompleted = "completed"
	PieceStatusCancelled = "cancelled"

	PayrollStatusDraft = "draft"

	WorkStatusIdle      = "idle"
	WorkStatusHourly    = "hourly"
	WorkStatusPieceRate = "piece_rate"
)

const (
	overtimeThreshold  = 40.0
	overtimeMultiplier = 1.5
)
