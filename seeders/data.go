package seeders

type demoTechnician struct {
	Name  string
	Email string
	Role  string
	Team  string
}

type demoEquipment struct {
	Name         string
	SerialNumber string
	Category     string
	Department   string
	Employee     string
	Location     string
	Team         string
}

type demoWorkCenter struct {
	Name              string
	Code              string
	CostPerHour       float64
	CapacityPerHour   float64
	TimeEfficiencyPct float64
	OEETargetPct      float64
}

var demoTeams = []string{"Механики", "Электрики", "IT-поддержка"}

// Пароль у всех демо-техников один, задаётся в seedDemo.
var demoTechnicians = []demoTechnician{
	{Name: "Иван Петров", Email: "ivan.petrov@gearguard.local", Role: "technician", Team: "Механики"},
	{Name: "Ольга Смирнова", Email: "olga.smirnova@gearguard.local", Role: "technician", Team: "Электрики"},
	{Name: "Тимур Алиев", Email: "timur.aliev@gearguard.local", Role: "technician", Team: "IT-поддержка"},
	{Name: "Мария Орлова", Email: "maria.orlova@gearguard.local", Role: "manager", Team: "Механики"},
}

var demoEquipmentList = []demoEquipment{
	{Name: "Токарный станок 16К20", SerialNumber: "LT-16K20-001", Category: "Станки", Department: "Производство", Employee: "Сергей Волков", Location: "Цех 1", Team: "Механики"},
	{Name: "Фрезерный станок 6Р12", SerialNumber: "FR-6R12-014", Category: "Станки", Department: "Производство", Employee: "Андрей Козлов", Location: "Цех 1", Team: "Механики"},
	{Name: "Компрессор Atlas Copco GA30", SerialNumber: "AC-GA30-7781", Category: "Пневматика", Department: "Производство", Employee: "", Location: "Компрессорная", Team: "Механики"},
	{Name: "Щит управления ЩУ-3", SerialNumber: "EL-SHU3-0032", Category: "Электрика", Department: "Энергетика", Employee: "", Location: "Цех 2", Team: "Электрики"},
	{Name: "Сервер Dell R740", SerialNumber: "DL-R740-55A1", Category: "IT", Department: "IT", Employee: "Тимур Алиев", Location: "Серверная", Team: "IT-поддержка"},
	{Name: "Ноутбук Lenovo T14", SerialNumber: "LN-T14-9912", Category: "IT", Department: "Бухгалтерия", Employee: "Елена Соколова", Location: "Офис 204", Team: "IT-поддержка"},
}

var demoWorkCenters = []demoWorkCenter{
	{Name: "Сборочная линия 1", Code: "ASM-1", CostPerHour: 120, CapacityPerHour: 40, TimeEfficiencyPct: 95, OEETargetPct: 85},
	{Name: "Сборочная линия 2", Code: "ASM-2", CostPerHour: 110, CapacityPerHour: 35, TimeEfficiencyPct: 90, OEETargetPct: 80},
	{Name: "Покрасочная камера", Code: "PNT-1", CostPerHour: 200, CapacityPerHour: 10, TimeEfficiencyPct: 85, OEETargetPct: 75},
}
