package api

import "github.com/gin-gonic/gin"

func (s *Server) listCustomers(c *gin.Context) {
	page, err := s.users.List(c.Request.Context(), currentPrincipal(c), userQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, page)
}
