package memory

import "github.com/aretw0/autodiag/pkg/domain"

// VehicleCatalogName names the built-in catalog.
const VehicleCatalogName = "vehiculo"

// Vehicle returns a loader for the built-in car diagnostic catalog.
func Vehicle() *Loader {
	return NewLoader(VehicleCatalogName, VehicleRules(), VehicleQuestions())
}

// VehicleQuestions returns the built-in question graph in declaration order.
func VehicleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:     "starts",
			Prompt: "¿El automóvil arranca?",
			Type:   domain.QuestionBoolean,
		},
		{
			ID:     "dash_lights",
			Prompt: "¿Las luces del tablero se encienden al girar la llave?",
			Type:   domain.QuestionBoolean,
			When:   domain.Equals("starts", false),
		},
		{
			ID:     "stalls_when_accelerating",
			Prompt: "¿El motor se apaga cuando aceleras?",
			Type:   domain.QuestionBoolean,
			When:   domain.Equals("starts", true),
		},
		{
			ID:     "black_smoke",
			Prompt: "¿Sale humo negro por el escape?",
			Type:   domain.QuestionBoolean,
		},
		{
			ID:     "white_smoke",
			Prompt: "¿Sale humo blanco constante por el escape?",
			Type:   domain.QuestionBoolean,
		},
	}
}

// VehicleRules returns the built-in knowledge base in priority order.
func VehicleRules() []domain.Rule {
	return []domain.Rule{
		{
			ID:          "rule1",
			Conditions:  map[string]bool{"starts": false, "dash_lights": false},
			Diagnosis:   "Batería descargada",
			Description: "Las luces del tablero apagadas junto con la imposibilidad de arrancar indican que la batería no tiene carga suficiente.",
			Recommendations: []string{
				"Verificar voltaje de la batería con multímetro (debe ser ~12.6V)",
				"Intentar arrancar con cables puente",
				"Revisar terminales de batería (corrosión/sulfatación)",
				"Considerar reemplazar la batería si tiene más de 3-4 años",
				"Verificar el alternador si la batería se descarga frecuentemente",
			},
			Severity: domain.SeverityMedium,
		},
		{
			ID:          "rule2",
			Conditions:  map[string]bool{"starts": false, "dash_lights": true},
			Diagnosis:   "Fallo en el motor de arranque",
			Description: "Si las luces funcionan pero el motor no arranca, el problema está en el sistema de arranque.",
			Recommendations: []string{
				"Verificar si se escucha el 'click' del solenoide",
				"Revisar fusibles del sistema de arranque",
				"Comprobar conexiones del motor de arranque",
				"Verificar el interruptor de encendido",
				"Puede requerir reemplazo del motor de arranque",
			},
			Severity: domain.SeverityHigh,
		},
		{
			ID:          "rule3",
			Conditions:  map[string]bool{"starts": true, "stalls_when_accelerating": true},
			Diagnosis:   "Problema en el suministro de combustible",
			Description: "El motor arranca pero no puede mantener la potencia, sugiere falta de combustible o presión inadecuada.",
			Recommendations: []string{
				"Verificar nivel de combustible en el tanque",
				"Revisar y reemplazar filtro de combustible",
				"Comprobar presión de la bomba de combustible",
				"Limpiar inyectores de combustible",
				"Verificar calidad del combustible",
			},
			Severity: domain.SeverityMedium,
		},
		{
			ID:          "rule4",
			Conditions:  map[string]bool{"black_smoke": true},
			Diagnosis:   "Mezcla rica de combustible",
			Description: "El humo negro indica combustión incompleta por exceso de combustible en la mezcla aire-combustible.",
			Recommendations: []string{
				"Revisar y limpiar/reemplazar filtro de aire",
				"Verificar sensores de oxígeno (lambda)",
				"Comprobar inyectores (pueden estar goteando)",
				"Revisar sistema de gestión del motor (ECU)",
				"Verificar sensor de flujo de aire (MAF)",
			},
			Severity: domain.SeverityMedium,
		},
		{
			ID:          "rule5",
			Conditions:  map[string]bool{"white_smoke": true},
			Diagnosis:   "Falla en la junta de culata",
			Description: "Humo blanco constante indica que el refrigerante está entrando a la cámara de combustión.",
			Recommendations: []string{
				"PARAR EL MOTOR INMEDIATAMENTE",
				"Verificar nivel de refrigerante",
				"Revisar si hay aceite con aspecto lechoso",
				"Comprobar temperatura del motor",
				"Realizar prueba de compresion",
				"Consultar mecanico especializado URGENTE",
			},
			Severity: domain.SeverityCritical,
		},
	}
}
