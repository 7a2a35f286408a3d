package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/config"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type PlanService interface {
	ListPlans(ctx context.Context, accountID uuid.UUID) (*dtos.PlansResponse, error)
	SelectPlan(ctx context.Context, accountID uuid.UUID, planCode string) (*dtos.SelectPlanResponse, error)
	ContinueAfterContactSales(ctx context.Context, accountID uuid.UUID) (onboarding.Route, error)
}

type planService struct {
	cfg          *config.Config
	accounts     repositories.AccountRepository
	properties   repositories.PropertyRepository
	contactSales repositories.ContactSalesRepository
	mailer       Mailer
	sms          SMSSender
	wizard       Wizard
}

func NewPlanService(
	cfg *config.Config,
	accounts repositories.AccountRepository,
	properties repositories.PropertyRepository,
	contactSales repositories.ContactSalesRepository,
	mailer Mailer,
	sms SMSSender,
	wizard Wizard,
) PlanService {
	return &planService{
		cfg:          cfg,
		accounts:     accounts,
		properties:   properties,
		contactSales: contactSales,
		mailer:       mailer,
		sms:          sms,
		wizard:       wizard,
	}
}

func (s *planService) ListPlans(ctx context.Context, accountID uuid.UUID) (*dtos.PlansResponse, error) {
	resp := &dtos.PlansResponse{Plans: constants.Plans}
	prop, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if prop != nil {
		resp.Selected = prop.PlanCode
	}
	return resp, nil
}

// SelectPlan stores the plan. Without a supported PMS the hotel does not
// pay online: a contact-sales request is filed and sales are notified.
func (s *planService) SelectPlan(ctx context.Context, accountID uuid.UUID, planCode string) (*dtos.SelectPlanResponse, error) {
	plan, ok := constants.PlanByCode(planCode)
	if !ok {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, fmt.Sprintf("unknown plan %q", planCode), nil)
	}

	prop, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, hotelNotFound()
	}
	sel := prop.PMSSelection()
	if sel == nil {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeStepRequirements, "Select a PMS before choosing a plan", onboarding.ErrStepRequirementsUnmet)
	}
	requiresSales := sel.RequiresSales()

	if err := s.properties.UpdateWithRetry(ctx, prop.ID, func(p *models.Property) error {
		if p.PaymentStatus == models.PaymentStatusPaid {
			if p.PlanCode != nil && *p.PlanCode != plan.Code {
				return utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "The plan was already paid for", nil)
			}
			return nil
		}
		p.PlanCode = &plan.Code
		if requiresSales {
			p.PaymentStatus = models.PaymentStatusNotRequired
		} else if p.PaymentStatus == models.PaymentStatusNotRequired {
			p.PaymentStatus = models.PaymentStatusUnpaid
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if requiresSales {
		s.fileContactSales(ctx, accountID, prop, *sel, plan)
	}
	return &dtos.SelectPlanResponse{PlanCode: plan.Code, RequiresSales: requiresSales}, nil
}

// fileContactSales never fails the plan selection; a request that could
// not be notified stays notified=false for follow-up.
func (s *planService) fileContactSales(ctx context.Context, accountID uuid.UUID, prop *models.Property, sel onboarding.PMSSelection, plan constants.Plan) {
	log := utils.Logger.WithField("account_id", accountID)

	req := &models.ContactSalesRequest{
		ID:         uuid.New(),
		AccountID:  accountID,
		PropertyID: prop.ID,
		PMSKind:    sel.Kind,
		PlanCode:   plan.Code,
	}
	if sel.Name != "" {
		name := sel.Name
		req.PMSName = &name
	}
	if err := s.contactSales.Create(ctx, req); err != nil {
		log.WithError(err).Error("Failed to store contact-sales request")
		return
	}

	email := ""
	if acc, err := s.accounts.GetByID(ctx, accountID); err == nil && acc != nil {
		email = acc.Email
	}
	pmsName := sel.Name
	if pmsName == "" {
		pmsName = "-"
	}

	subject := fmt.Sprintf(constants.EmailSubjectContactSales, prop.HotelName)
	body := fmt.Sprintf(contactSalesEmailPlain, prop.HotelName, email, plan.Name, sel.Kind, pmsName)
	if err := s.mailer.SendEmail(ctx, utils.SalesTeamEmail, subject, body, ""); err != nil {
		log.WithError(err).Warn("Sales email not sent")
		return
	}
	if s.cfg.LDFlag_NotifySalesBySMS && s.cfg.SalesPhone != "" {
		sms := fmt.Sprintf("%s: %s picked %s without a supported PMS (%s).", s.cfg.OrganizationName, prop.HotelName, plan.Name, sel.Kind)
		if err := s.sms.SendSMS(ctx, s.cfg.SalesPhone, sms); err != nil {
			log.WithError(err).Warn("Sales SMS not sent")
		}
	}

	if err := s.contactSales.MarkNotified(ctx, req.ID); err != nil {
		log.WithError(err).Warn("Failed to mark contact-sales request notified")
	}
	log.Infof("Contact-sales request %s filed", req.ID)
}

func (s *planService) ContinueAfterContactSales(ctx context.Context, accountID uuid.UUID) (onboarding.Route, error) {
	prop, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if prop == nil {
		return "", hotelNotFound()
	}
	if sel := prop.PMSSelection(); sel == nil || !sel.RequiresSales() {
		return "", utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "This hotel does not go through sales", nil)
	}
	return s.wizard.Routes().ContinueAfterContactSales(), nil
}
