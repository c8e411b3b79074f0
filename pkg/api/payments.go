package api

import "github.com/gin-gonic/gin"

type verifyRequest struct {
	Reference string `json:"reference"`
}

// verifyPayment is webhook-shaped: no session required, the gateway
// reference is the credential.
func (s *Server) verifyPayment(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c, err)
		return
	}

	order, err := s.payments.Verify(c.Request.Context(), req.Reference)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, order)
}
