package intake

import "fmt"

const greeting = "👋 Hello! ¡Hola! Olá!\n\nI'm Nico, how can I help you?\nSoy Nico, ¿en qué puedo ayudarte?\nSou Nico, como posso ajudá-lo?"

type serviceKind string

const (
	serviceSign    serviceKind = "letrero"
	serviceLogo    serviceKind = "logo"
	serviceWebsite serviceKind = "web"
)

// serviceLabels is how each service is named back to the visitor
var serviceLabels = map[serviceKind]map[string]string{
	serviceSign:    {"es": "letrero", "en": "sign", "pt": "letreiro"},
	serviceLogo:    {"es": "logo", "en": "logo", "pt": "logo"},
	serviceWebsite: {"es": "página web", "en": "website", "pt": "site"},
}

var serviceQuestions = map[serviceKind]map[string][3]string{
	serviceSign: {
		"es": {
			"¿El letrero será para interior o exterior?",
			"¿Qué tamaño aproximado necesitas?\n\nPor ejemplo:\n• Pequeño: 12\" x 24\"\n• Mediano: 24\" x 48\"\n• Grande: 36\" x 72\"\n• Personalizado",
			"¿Lo quieres con luz LED o sin luz?",
		},
		"en": {
			"Will the sign be for indoor or outdoor use?",
			"What approximate size do you need?\n\nFor example:\n• Small: 12\" x 24\"\n• Medium: 24\" x 48\"\n• Large: 36\" x 72\"\n• Custom",
			"Do you want it with LED lighting or without light?",
		},
		"pt": {
			"O letreiro será para uso interno ou externo?",
			"Qual tamanho aproximado você precisa?\n\nPor exemplo:\n• Pequeno: 12\" x 24\"\n• Médio: 24\" x 48\"\n• Grande: 36\" x 72\"\n• Personalizado",
			"Você quer com iluminação LED ou sem luz?",
		},
	},
	serviceLogo: {
		"es": {
			"¿Ya tienes una idea del estilo de logo que buscas? (moderno, clásico, minimalista, etc.)",
			"¿Qué colores prefieres para tu logo?",
			"¿Cuál es el nombre de tu empresa o negocio?",
		},
		"en": {
			"Do you already have an idea of the logo style you're looking for? (modern, classic, minimalist, etc.)",
			"What colors do you prefer for your logo?",
			"What is the name of your company or business?",
		},
		"pt": {
			"Você já tem uma ideia do estilo de logo que procura? (moderno, clássico, minimalista, etc.)",
			"Quais cores você prefere para seu logo?",
			"Qual é o nome da sua empresa ou negócio?",
		},
	},
	serviceWebsite: {
		"es": {
			"¿Qué tipo de página web necesitas? (Landing page simple o página web completa con funcionalidades)",
			"¿Ya tienes contenido e imágenes preparadas o necesitas ayuda con eso?",
			"¿Necesitas la página web urgente o tienes tiempo?",
		},
		"en": {
			"What type of website do you need? (Simple landing page or full website with features)",
			"Do you already have content and images prepared or do you need help with that?",
			"Do you need the website urgently or do you have time?",
		},
		"pt": {
			"Que tipo de site você precisa? (Landing page simples ou site completo com funcionalidades)",
			"Você já tem conteúdo e imagens preparados ou precisa de ajuda com isso?",
			"Você precisa do site com urgência ou tem tempo?",
		},
	},
}

var serviceInfo = map[serviceKind]map[string]string{
	serviceSign: {
		"es": "📦 Información de Entrega:\n• Tiempo de producción: 5-7 días hábiles\n• Envío: UPS con tracking\n• Incluye: Diseño, fabricación e instalación (si es local)",
		"en": "📦 Delivery Information:\n• Production time: 5-7 business days\n• Shipping: UPS with tracking\n• Includes: Design, manufacturing and installation (if local)",
		"pt": "📦 Informações de Entrega:\n• Tempo de produção: 5-7 dias úteis\n• Envio: UPS com rastreamento\n• Inclui: Design, fabricação e instalação (se local)",
	},
	serviceLogo: {
		"es": "🎨 Información del Servicio:\n• Entrega: 5-7 días hábiles\n• Incluye: Múltiples conceptos, revisiones ilimitadas\n• Formatos: PNG, JPG, SVG, AI\n• Archivos enviados por email",
		"en": "🎨 Service Information:\n• Delivery: 5-7 business days\n• Includes: Multiple concepts, unlimited revisions\n• Formats: PNG, JPG, SVG, AI\n• Files sent by email",
		"pt": "🎨 Informações do Serviço:\n• Entrega: 5-7 dias úteis\n• Inclui: Múltiplos conceitos, revisões ilimitadas\n• Formatos: PNG, JPG, SVG, AI\n• Arquivos enviados por email",
	},
	serviceWebsite: {
		"es": "💻 Información del Proyecto:\n• Desarrollo: 5-7 días hábiles (páginas simples)\n• Incluye: Diseño responsive, hosting primer mes gratis\n• Soporte técnico incluido\n• Dominio y contenido personalizado",
		"en": "💻 Project Information:\n• Development: 5-7 business days (simple pages)\n• Includes: Responsive design, first month hosting free\n• Technical support included\n• Custom domain and content",
		"pt": "💻 Informações do Projeto:\n• Desenvolvimento: 5-7 dias úteis (páginas simples)\n• Inclui: Design responsivo, primeiro mês de hospedagem grátis\n• Suporte técnico incluído\n• Domínio e conteúdo personalizado",
	},
}

var (
	askNamePrompt = map[string]string{
		"es": "¡Perfecto! 📝 Ahora necesito tus datos para crear tu ticket de ayuda.\n\n¿Cuál es tu nombre completo?",
		"en": "Perfect! 📝 Now I need your information to create your help ticket.\n\nWhat is your full name?",
		"pt": "Perfeito! 📝 Agora preciso dos seus dados para criar seu ticket de ajuda.\n\nQual é o seu nome completo?",
	}
	askEmailPrompt = map[string]string{
		"es": "¿Cuál es tu correo electrónico?",
		"en": "What is your email address?",
		"pt": "Qual é o seu e-mail?",
	}
	askPhonePrompt = map[string]string{
		"es": "¿Cuál es tu número de teléfono?",
		"en": "What is your phone number?",
		"pt": "Qual é o seu número de telefone?",
	}
	anythingElsePrompt = map[string]string{
		"es": "¿Hay algo más en lo que pueda ayudarte? 😊",
		"en": "Is there anything else I can help you with? 😊",
		"pt": "Há algo mais em que eu possa ajudá-lo? 😊",
	}
	ticketPendingNotice = map[string]string{
		"es": "📝 Registramos tus datos de contacto, pero la confirmación de tu ticket #%s está pendiente. Nuestro equipo se pondrá en contacto contigo pronto.",
		"en": "📝 We recorded your contact details, but the confirmation of ticket #%s is pending. Our team will reach out to you soon.",
		"pt": "📝 Registramos seus dados de contato, mas a confirmação do ticket #%s está pendente. Nossa equipe entrará em contato em breve.",
	}
)

func serviceChosenReply(lang, label string, kind serviceKind) string {
	first := serviceQuestions[kind][lang][0]
	info := serviceInfo[kind][lang]
	switch lang {
	case "en":
		return fmt.Sprintf("Excellent choice! 👍\n\n%s\n\nLet's ask some questions about your %s.\n\n%s", info, label, first)
	case "pt":
		return fmt.Sprintf("Excelente escolha! 👍\n\n%s\n\nVamos fazer algumas perguntas sobre seu %s.\n\n%s", info, label, first)
	default:
		return fmt.Sprintf("Excelente elección! 👍\n\n%s\n\nVamos a hacer algunas preguntas sobre tu %s.\n\n%s", info, label, first)
	}
}

func ticketCreatedReply(lang string, c *Conversation) string {
	info := serviceInfo[classifyService(c.Service)][lang]
	switch lang {
	case "en":
		return fmt.Sprintf("✅ Ticket created successfully!\n\n📋 Ticket Number: #%s\n\n📝 Summary:\n• Service: %s\n• Name: %s\n• Email: %s\n• Phone: %s\n\n%s\n\nOur team will review your request and contact you within the next 24 hours to confirm details and payment process.\n\nThank you for trusting Extreme Graphics! 🎨",
			c.TicketNumber, c.Service, c.Name, c.Email, c.Phone, info)
	case "pt":
		return fmt.Sprintf("✅ Ticket criado com sucesso!\n\n📋 Número do Ticket: #%s\n\n📝 Resumo:\n• Serviço: %s\n• Nome: %s\n• Email: %s\n• Telefone: %s\n\n%s\n\nNossa equipe revisará sua solicitação e entrará em contato com você nas próximas 24 horas para confirmar detalhes e processo de pagamento.\n\nObrigado por confiar na Extreme Graphics! 🎨",
			c.TicketNumber, c.Service, c.Name, c.Email, c.Phone, info)
	default:
		return fmt.Sprintf("✅ ¡Ticket creado exitosamente!\n\n📋 Número de Ticket: #%s\n\n📝 Resumen:\n• Servicio: %s\n• Nombre: %s\n• Email: %s\n• Teléfono: %s\n\n%s\n\nNuestro equipo revisará tu solicitud y se pondrá en contacto contigo dentro de las próximas 24 horas para confirmar los detalles y el proceso de pago.\n\n¡Gracias por confiar en Extreme Graphics! 🎨",
			c.TicketNumber, c.Service, c.Name, c.Email, c.Phone, info)
	}
}
