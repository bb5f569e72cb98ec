//go:build e2e

package booking_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/handler/dto/request"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/pkg/signature"
	"gamezone-booking/tests/common/authtest"
	"gamezone-booking/tests/common/dbtest"
	"gamezone-booking/tests/common/httptest"
	"gamezone-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/reservations"
	verifyURL       = "/api/payments/verify"
)

type bookingSuite struct {
	e2e.SharedSuite
	jwt      *authtest.JWTHelper
	verifier *signature.Verifier
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(bookingSuite))
}

func (s *bookingSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
	s.verifier = signature.NewVerifier(s.Config.Payment.Secret)
}

type customer struct {
	id    uuid.UUID
	token string
}

func (s *bookingSuite) newCustomer() customer {
	id := uuid.New()
	return customer{id: id, token: s.jwt.GenerateToken(s.T(), id, user.RoleCustomer)}
}

func (s *bookingSuite) seedStation() (typeID, stationID uuid.UUID) {
	typeID = dbtest.CreateStationType(s.T(), s.DB, dbtest.StationTypeSeed{Name: "PS5"})
	stationID = dbtest.CreateStation(s.T(), s.DB, typeID, "PS5-1")
	return typeID, stationID
}

func (s *bookingSuite) book(c customer, typeID uuid.UUID) *resdto.ReservationResponse {
	body := request.CreateReservationRequest{
		StationTypeID:   typeID,
		StartTime:       time.Now().Add(time.Minute).UTC().Truncate(time.Second),
		DurationMinutes: 60,
	}
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL, body, c.token)
	var res resdto.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &res)
	return &res
}

func (s *bookingSuite) pay(reservationID uuid.UUID, paymentRef string) *resdto.DispatchResponse {
	orderRef := reservationID.String()
	body := request.VerifyPaymentRequest{
		EntityType: "reservation",
		OrderRef:   orderRef,
		PaymentRef: paymentRef,
		Signature:  s.verifier.Sign(orderRef, paymentRef),
	}
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, verifyURL, body, "")
	var out resdto.DispatchResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &out)
	return &out
}

func (s *bookingSuite) TestPaidBookingStartsSession() {
	s.Run("gateway confirmation seats the customer", func() {
		typeID, stationID := s.seedStation()
		c := s.newCustomer()

		res := s.book(c, typeID)
		assert.Equal(s.T(), "pending_payment", res.Status)
		assert.Positive(s.T(), res.Amount)
		assert.True(s.T(), res.ExpiresAt.After(time.Now()))

		out := s.pay(res.ID, "pay-1")
		assert.Equal(s.T(), "confirmed", out.Outcome)
		require.NotNil(s.T(), out.Session)
		assert.Equal(s.T(), "active", out.Session.Status)
		assert.Equal(s.T(), stationID, out.Session.StationID)
		assert.Equal(s.T(), "occupied", dbtest.StationStatus(s.T(), s.DB, stationID))

		replay := s.pay(res.ID, "pay-1")
		assert.True(s.T(), replay.Replayed)
		assert.Equal(s.T(), out.Session.ID, replay.Session.ID)
		assert.Equal(s.T(), 1, dbtest.CountRows(s.T(), s.DB, "sessions"))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/"+res.ID.String(), nil, c.token)
		var got resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &got)
		assert.Equal(s.T(), "payment_confirmed", got.Status)
		assert.Equal(s.T(), "pay-1", got.PaymentRef)
		assert.Equal(s.T(), &out.Session.ID, got.SessionID)
	})

	s.Run("forged signature is rejected and the hold stays", func() {
		typeID, _ := s.seedStation()
		c := s.newCustomer()
		res := s.book(c, typeID)

		body := request.VerifyPaymentRequest{
			EntityType: "reservation",
			OrderRef:   res.ID.String(),
			PaymentRef: "pay-forged",
			Signature:  signature.NewVerifier("other-secret").Sign(res.ID.String(), "pay-forged"),
		}
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, verifyURL, body, "")
		assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/"+res.ID.String(), nil, c.token)
		var got resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &got)
		assert.Equal(s.T(), "pending_payment", got.Status)
		assert.Zero(s.T(), dbtest.CountRows(s.T(), s.DB, "sessions"))
	})

	s.Run("other customers cannot see the booking", func() {
		typeID, _ := s.seedStation()
		res := s.book(s.newCustomer(), typeID)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/"+res.ID.String(), nil, s.newCustomer().token)
		assert.Equal(s.T(), http.StatusNotFound, w.Code)
	})
}

func (s *bookingSuite) TestIdempotentCreate() {
	s.Run("same key replays the first reservation", func() {
		typeID, _ := s.seedStation()
		c := s.newCustomer()
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}
		body := request.CreateReservationRequest{
			StationTypeID:   typeID,
			StartTime:       time.Now().Add(time.Minute).UTC().Truncate(time.Second),
			DurationMinutes: 60,
		}

		w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, reservationsURL, body, c.token, headers)
		var first resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &first)

		w = httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, reservationsURL, body, c.token, headers)
		var again resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &again)

		assert.Equal(s.T(), first.ID, again.ID)
		assert.Equal(s.T(), 1, dbtest.CountRows(s.T(), s.DB, "reservations"))
	})
}

func (s *bookingSuite) TestConcurrentBookingsOnOneStation() {
	s.Run("only one hold wins the window", func() {
		typeID, stationID := s.seedStation()
		start := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Minute)

		const attempts = 5
		codes := make([]int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			c := s.newCustomer()
			wg.Add(1)
			go func() {
				defer wg.Done()
				body := request.CreateReservationRequest{
					StationTypeID:   typeID,
					StationID:       &stationID,
					StartTime:       start,
					DurationMinutes: 60,
				}
				w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL, body, c.token)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created := 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			default:
				assert.Equal(s.T(), http.StatusConflict, code)
			}
		}
		assert.Equal(s.T(), 1, created)
		assert.Equal(s.T(), 1, dbtest.CountRows(s.T(), s.DB, "reservations"))
	})
}

func (s *bookingSuite) TestQueueAdmission() {
	s.Run("paid booking waits and is seated when the station frees up", func() {
		typeID, stationID := s.seedStation()
		holder := s.newCustomer()
		seated := s.pay(s.book(holder, typeID).ID, "pay-holder")
		require.Equal(s.T(), "confirmed", seated.Outcome)

		late := s.newCustomer()
		res := s.book(late, typeID)
		out := s.pay(res.ID, "pay-late")
		assert.Equal(s.T(), "queued", out.Outcome)
		require.NotNil(s.T(), out.Queue)
		assert.Equal(s.T(), 1, out.Queue.Position)
		assert.Equal(s.T(), s.Config.Queue.TurnoverMinutes, out.Queue.EstimatedWaitMinutes)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/"+res.ID.String()+"/queue", nil, late.token)
		var status resdto.QueueStatusResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &status)
		assert.Equal(s.T(), "waiting", status.Status)
		assert.Equal(s.T(), 0, status.AheadCount)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/sessions/"+seated.Session.ID.String()+"/end", nil, holder.token)
		var ended resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &ended)
		assert.Equal(s.T(), "ended", ended.Status)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/"+res.ID.String(), nil, late.token)
		var promoted resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &promoted)
		require.NotNil(s.T(), promoted.SessionID)
		assert.Equal(s.T(), &stationID, promoted.StationID)
		assert.Equal(s.T(), "occupied", dbtest.StationStatus(s.T(), s.DB, stationID))

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/"+res.ID.String()+"/queue", nil, late.token)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &status)
		assert.Equal(s.T(), "assigned", status.Status)
	})
}

func (s *bookingSuite) TestSessionLifecycle() {
	s.Run("pause, resume and extend persist", func() {
		typeID, _ := s.seedStation()
		c := s.newCustomer()
		out := s.pay(s.book(c, typeID).ID, "pay-1")
		require.NotNil(s.T(), out.Session)
		sessionURL := "/api/sessions/" + out.Session.ID.String()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, sessionURL+"/pause", map[string]string{"reason": "snack"}, c.token)
		var sess resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &sess)
		assert.Equal(s.T(), "paused", sess.Status)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, sessionURL+"/pause", nil, c.token)
		assert.Equal(s.T(), http.StatusConflict, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, sessionURL+"/resume", nil, c.token)
		var resumed resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resumed)
		assert.Equal(s.T(), "active", resumed.Status)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, sessionURL+"/extend", map[string]int{"additionalMinutes": 30}, c.token)
		var extended resdto.ExtendSessionResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &extended)
		assert.Positive(s.T(), extended.Charge)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, sessionURL, nil, c.token)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &sess)
		assert.True(s.T(), sess.Extended)
		assert.Equal(s.T(), extended.Charge, sess.ExtensionAmount)
		assert.Equal(s.T(), "pending", sess.PaymentStatus)
		require.Len(s.T(), sess.PauseHistory, 1)
		assert.Equal(s.T(), "snack", sess.PauseHistory[0].Reason)
		assert.True(s.T(), resumed.EndTime.Add(30*time.Minute).Equal(sess.EndTime))
	})
}
