package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	// CSRFFieldName es el campo oculto de los formularios que transporta el token
	CSRFFieldName = "csrf_token"
	// CSRFCookieName es la cookie que guarda el secreto de la sesión
	CSRFCookieName = "customer_store_csrf"
)

// CSRF exige un token anti-falsificación en los métodos que modifican datos.
// El token se liga a una cookie firmada con authKey (32 bytes). Con secure en
// false la cookie no lleva el atributo Secure y no se exige Referer, para
// servir por HTTP plano. onFailure responde cuando el token falta o no coincide.
func CSRF(authKey []byte, secure bool, onFailure gin.HandlerFunc) gin.HandlerFunc {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName(CSRFCookieName),
		csrf.FieldName(CSRFFieldName),
		csrf.SameSite(csrf.SameSiteLaxMode),
		// La respuesta de error la escribe onFailure desde gin
		csrf.ErrorHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})),
	)

	return func(c *gin.Context) {
		req := c.Request
		if !secure {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			// r lleva el token en su contexto y el formulario ya parseado
			c.Request = r
		})).ServeHTTP(c.Writer, req)

		if !passed {
			onFailure(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken retorna el token a incrustar en el formulario de la petición actual
func CSRFToken(c *gin.Context) string {
	return csrf.Token(c.Request)
}
