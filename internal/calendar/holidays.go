package calendar

// Zaragoza2025 returns the 2025 labor calendar for Zaragoza: national
// and Aragón holidays plus the two local ones. Only valid for 2025;
// plans for other years or regions must supply their own set.
func Zaragoza2025() HolidaySet {
	return NewHolidaySet(
		"2025-01-01", // Año Nuevo
		"2025-01-06", // Epifanía del Señor
		"2025-01-29", // San Valero (local)
		"2025-03-05", // Cincomarzada (local)
		"2025-04-17", // Jueves Santo
		"2025-04-18", // Viernes Santo
		"2025-04-23", // San Jorge
		"2025-05-01", // Fiesta del Trabajo
		"2025-08-15", // Asunción de la Virgen
		"2025-10-13", // Lunes tras la Fiesta Nacional
		"2025-11-01", // Todos los Santos
		"2025-12-06", // Día de la Constitución
		"2025-12-08", // Inmaculada Concepción
		"2025-12-25", // Navidad
	)
}
