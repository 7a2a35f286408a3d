package onboarding

import (
	"github.com/sirupsen/logrus"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// Route identifies a frontend destination.
type Route string

// RouteTable binds every step to a route. It is configuration only.
type RouteTable struct {
	Dashboard    Route
	ContactSales Route
	Steps        map[Step]Route
}

// DefaultRouteTable is used when no override is configured.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		Dashboard:    "/dashboard",
		ContactSales: "/onboarding/contact-sales",
		Steps: map[Step]Route{
			StepRegister:         "/register",
			StepVerifyEmail:      "/onboarding/verify-email",
			StepHotelInformation: "/onboarding/hotel-information",
			StepPMSIntegration:   "/onboarding/pms-integration",
			StepSelectPlan:       "/onboarding/select-plan",
			StepPayment:          "/onboarding/payment",
			StepAddCompetitor:    "/onboarding/add-competitor",
			StepMSP:              "/onboarding/msp",
			StepComplete:         "/onboarding/complete",
		},
	}
}

// WithOverrides returns a copy with the given step routes replaced. Keys
// that are not steps ("dashboard" and "contact_sales" aside) are ignored.
func (t RouteTable) WithOverrides(overrides map[string]string) RouteTable {
	out := RouteTable{Dashboard: t.Dashboard, ContactSales: t.ContactSales, Steps: make(map[Step]Route, len(t.Steps))}
	for s, r := range t.Steps {
		out.Steps[s] = r
	}
	for k, v := range overrides {
		if v == "" {
			continue
		}
		switch k {
		case "dashboard":
			out.Dashboard = Route(v)
		case "contact_sales":
			out.ContactSales = Route(v)
		default:
			if s := Step(k); s.Valid() {
				out.Steps[s] = Route(v)
			} else {
				utils.Logger.Warnf("Ignoring route override for unknown step %q", k)
			}
		}
	}
	return out
}

// For returns the route bound to s.
func (t RouteTable) For(s Step) Route {
	return t.Steps[s]
}

// ResolveLandingStep picks the page to show for a freshly fetched progress.
func (t RouteTable) ResolveLandingStep(p Progress) Route {
	if p.Completed {
		return t.Dashboard
	}
	if p.CurrentStep == StepRegister {
		// registration happens inline on the login page
		return t.Dashboard
	}
	if r, ok := t.Steps[p.CurrentStep]; ok && p.CurrentStep.Valid() {
		return r
	}
	utils.Logger.WithFields(logrus.Fields{
		"current_step": string(p.CurrentStep),
		"fallback":     string(StepHotelInformation),
	}).Warn("Unrecognized onboarding step, falling back")
	return t.Steps[StepHotelInformation]
}

// Destination is where completing a step leads: the step to persist and
// the route to display right away.
type Destination struct {
	Step  Step
	Route Route
}

// NextAfter holds the only branch of the flow. After select_plan, hotels
// whose PMS selection requires sales skip payment and see the contact-sales
// screen, then rejoin at add_competitor.
func (t RouteTable) NextAfter(s Step, sel PMSSelection) (Destination, bool) {
	if s == StepSelectPlan && sel.RequiresSales() {
		return Destination{Step: StepAddCompetitor, Route: t.ContactSales}, true
	}
	next := NextStep(s)
	if next == nil {
		return Destination{}, false
	}
	return Destination{Step: *next, Route: t.For(*next)}, true
}

// ContinueAfterContactSales is where the contact-sales screen leads.
func (t RouteTable) ContinueAfterContactSales() Route {
	return t.For(StepAddCompetitor)
}
