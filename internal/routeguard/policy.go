package routeguard

// GatePolicy is the decision strategy selected once at startup. Production
// runs RealGatePolicy; development can run BypassGatePolicy. The choice is a
// single explicit configuration switch, never an inline conditional in the
// guard path.
type GatePolicy interface {
	Decide(in Input) Decision

	// Name identifies the policy in logs.
	Name() string
}

// RealGatePolicy evaluates the full rule set.
type RealGatePolicy struct {
	table *Table
}

func NewRealGatePolicy(table *Table) *RealGatePolicy {
	return &RealGatePolicy{table: table}
}

func (p *RealGatePolicy) Decide(in Input) Decision {
	return Decide(p.table, in)
}

func (p *RealGatePolicy) Name() string { return "real" }

// BypassGatePolicy short-circuits the gate for development and testing. It
// allows everything except the literal login and onboarding entry paths,
// which still redirect home so the bypass is transparent rather than merely
// permissive: a developer landing on /login sees the app, not a dead screen.
type BypassGatePolicy struct{}

func NewBypassGatePolicy() *BypassGatePolicy {
	return &BypassGatePolicy{}
}

func (p *BypassGatePolicy) Decide(in Input) Decision {
	switch normalize(in.Target) {
	case RouteLogin, RouteOnboardingEntry:
		return redirect(RouteHome, "dev bypass carve-out")
	}
	return allow("dev bypass")
}

func (p *BypassGatePolicy) Name() string { return "bypass" }
