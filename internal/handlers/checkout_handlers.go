package handlers

import (
	"log"
	"net/http"

	"github.com/dreamvault/dreamvault-golang/internal/billing"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

//
// --- Checkout Session Creator ---
//
// A stateless pass-through to the payments provider: validate the small
// input payload, create exactly one subscription-mode checkout session,
// and hand the redirect URL back. Repeated calls create distinct
// sessions; retries are the caller's responsibility.
//

// CreateCheckoutSessionInput defines the expected JSON payload.
// priceId, userId and userEmail are hard requirements; the rest rides
// along into the session metadata and redirect URLs verbatim.
type CreateCheckoutSessionInput struct {
	PriceID      string `json:"priceId" binding:"required"`
	UserID       string `json:"userId" binding:"required"`
	UserEmail    string `json:"userEmail" binding:"required"`
	Tier         string `json:"tier"`
	BillingCycle string `json:"billingCycle"`
	SuccessURL   string `json:"successUrl"`
	CancelURL    string `json:"cancelUrl"`
}

// CreateCheckoutSession is the handler for POST /v1/billing/checkout-session.
func (h *Handlers) CreateCheckoutSession(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	// Fail fast: if a required field is missing we never touch the provider.
	var input CreateCheckoutSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Build the Session Request ---
	// The same metadata goes on the session AND the resulting
	// subscription, so both objects can be traced back to the user.
	metadata := map[string]string{
		"userId":       input.UserID,
		"tier":         input.Tier,
		"billingCycle": input.BillingCycle,
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(input.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail:     stripe.String(input.UserEmail),
		ClientReferenceID: stripe.String(input.UserID),
		SuccessURL:        stripe.String(input.SuccessURL),
		CancelURL:         stripe.String(input.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
		AllowPromotionCodes: stripe.Bool(true),
	}
	params.Metadata = metadata

	// 3. --- Create the Session ---
	// Exactly one provider call per valid request. No retries here.
	session, err := h.Billing.CreateCheckoutSession(params)
	if err != nil {
		log.Printf("ERROR: Failed to create checkout session for user %s: %v", input.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": billing.ErrorMessage(err)})
		return
	}

	// 4. --- Send the Redirect URL ---
	c.JSON(http.StatusOK, gin.H{"sessionUrl": session.URL})
}
