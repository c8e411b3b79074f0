package api

import (
	"github.com/gin-gonic/gin"

	"github.com/example/storefront/pkg/service"
)

func (s *Server) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c, err)
		return
	}

	order, err := s.orders.Create(c.Request.Context(), currentPrincipal(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondCreated(c, order)
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orders.Get(c.Request.Context(), currentPrincipal(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, order)
}

func (s *Server) listOrders(c *gin.Context) {
	page, err := s.orders.List(c.Request.Context(), currentPrincipal(c), orderQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, page)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c, err)
		return
	}

	order, err := s.orders.UpdateStatus(c.Request.Context(), currentPrincipal(c), c.Param("id"), req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, order)
}

type paymentStatusUpdateRequest struct {
	PaymentStatus string `json:"payment_status"`
}

func (s *Server) updatePaymentStatus(c *gin.Context) {
	var req paymentStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c, err)
		return
	}

	order, err := s.orders.UpdatePaymentStatus(c.Request.Context(), currentPrincipal(c), c.Param("id"), req.PaymentStatus)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, order)
}

func (s *Server) orderAuditLog(c *gin.Context) {
	entries, err := s.orders.AuditLog(c.Request.Context(), currentPrincipal(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, entries)
}

type noteRequest struct {
	Body string `json:"body"`
}

func (s *Server) addOrderNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c, err)
		return
	}

	note, err := s.orders.AddNote(c.Request.Context(), currentPrincipal(c), c.Param("id"), req.Body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondCreated(c, note)
}
