// Package i18n translates API error messages and shopper notifications.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: defaultMessages,
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale, then to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Translatef translates key and formats it with args.
func (t *Translator) Translatef(key, locale string, args ...interface{}) string {
	msg := t.Translate(key, locale)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Supports reports whether locale has a message table.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	return ParseLocale(c.GetHeader(AcceptLanguageHeader))
}

// ParseLocale picks the first language of an Accept-Language value
// ("pt-BR,pt;q=0.9,en;q=0.8" is "pt") if it is supported.
func ParseLocale(acceptLang string) string {
	if acceptLang == "" {
		return DefaultLocale
	}

	first := strings.Split(acceptLang, ",")[0]
	lang := strings.TrimSpace(strings.Split(first, ";")[0])
	if idx := strings.Index(lang, "-"); idx > 0 {
		lang = lang[:idx]
	}
	lang = strings.ToLower(lang)

	if GetTranslator().Supports(lang) {
		return lang
	}
	return DefaultLocale
}

var defaultMessages = map[string]map[string]string{
	"en": {
		ErrKeyInvalidRequest:     "Invalid request",
		ErrKeyInvalidRequestBody: "Invalid request body",
		ErrKeyInternalError:      "An unexpected error occurred",
		ErrKeyNotFound:           "Not found",
		ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
		ErrKeyConflict:           "Conflict",
		ErrKeyTimeout:            "Request timeout",
		ErrKeyInvalidSession:     "Invalid session id",
		ErrKeyInvalidPrice:       "Price must be a non-negative number",
		ErrKeyInvalidIndex:       "No cart item at that position",
		ErrKeyUnknownCommand:     "Unknown cart command",
		ErrKeyStoreUnavailable:   "Cart storage is temporarily unavailable",
		ErrKeyRequestTooLarge:    "Request body is too large",

		NoticeKeyItemAdded:       "%s added to cart!",
		NoticeKeyItemRemoved:     "%s removed from cart",
		NoticeKeyCartUpdated:     "Cart updated",
		NoticeKeyCartEmpty:       "Your cart is empty!",
		NoticeKeyCheckoutSuccess: "Checkout successful! Your order has been placed.",
	},
	"pt": {
		ErrKeyInvalidRequest:     "Requisição inválida",
		ErrKeyInvalidRequestBody: "Corpo da requisição inválido",
		ErrKeyInternalError:      "Ocorreu um erro inesperado",
		ErrKeyNotFound:           "Não encontrado",
		ErrKeyRateLimitExceeded:  "Muitas requisições, tente novamente mais tarde",
		ErrKeyConflict:           "Conflito",
		ErrKeyTimeout:            "Tempo de requisição esgotado",
		ErrKeyInvalidSession:     "Identificador de sessão inválido",
		ErrKeyInvalidPrice:       "O preço deve ser um número não negativo",
		ErrKeyInvalidIndex:       "Nenhum item do carrinho nessa posição",
		ErrKeyUnknownCommand:     "Comando de carrinho desconhecido",
		ErrKeyStoreUnavailable:   "Armazenamento do carrinho temporariamente indisponível",
		ErrKeyRequestTooLarge:    "Corpo da requisição muito grande",

		NoticeKeyItemAdded:       "%s adicionado ao carrinho!",
		NoticeKeyItemRemoved:     "%s removido do carrinho",
		NoticeKeyCartUpdated:     "Carrinho atualizado",
		NoticeKeyCartEmpty:       "Seu carrinho está vazio!",
		NoticeKeyCheckoutSuccess: "Compra finalizada! Seu pedido foi registrado.",
	},
	"nl": {
		ErrKeyInvalidRequest:     "Ongeldig verzoek",
		ErrKeyInvalidRequestBody: "Ongeldige aanvraag body",
		ErrKeyInternalError:      "Er is een onverwachte fout opgetreden",
		ErrKeyNotFound:           "Niet gevonden",
		ErrKeyRateLimitExceeded:  "Te veel verzoeken, probeer het later opnieuw",
		ErrKeyConflict:           "Conflict",
		ErrKeyTimeout:            "Time-out van verzoek",
		ErrKeyInvalidSession:     "Ongeldige sessie-id",
		ErrKeyInvalidPrice:       "Prijs moet een niet-negatief getal zijn",
		ErrKeyInvalidIndex:       "Geen winkelwagenartikel op die positie",
		ErrKeyUnknownCommand:     "Onbekend winkelwagencommando",
		ErrKeyStoreUnavailable:   "Winkelwagenopslag is tijdelijk niet beschikbaar",
		ErrKeyRequestTooLarge:    "Aanvraag body is te groot",

		NoticeKeyItemAdded:       "%s toegevoegd aan winkelwagen!",
		NoticeKeyItemRemoved:     "%s verwijderd uit winkelwagen",
		NoticeKeyCartUpdated:     "Winkelwagen bijgewerkt",
		NoticeKeyCartEmpty:       "Je winkelwagen is leeg!",
		NoticeKeyCheckoutSuccess: "Afrekenen gelukt! Je bestelling is geplaatst.",
	},
}
