package api

import (
	"github.com/gin-gonic/gin"

	"github.com/example/storefront/pkg/service"
)

func (s *Server) createProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadJSON(c, err)
		return
	}

	product, err := s.products.Create(c.Request.Context(), currentPrincipal(c), input)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondCreated(c, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadJSON(c, err)
		return
	}

	product, err := s.products.Update(c.Request.Context(), currentPrincipal(c), c.Param("id"), input)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, product)
}

func (s *Server) discontinueProduct(c *gin.Context) {
	if err := s.products.Discontinue(c.Request.Context(), currentPrincipal(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": c.Param("id")})
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, product)
}

func (s *Server) listProducts(c *gin.Context) {
	page, err := s.products.List(c.Request.Context(), currentPrincipal(c), productQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, page)
}

func (s *Server) lowStockProducts(c *gin.Context) {
	products, err := s.products.LowStock(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, products)
}
