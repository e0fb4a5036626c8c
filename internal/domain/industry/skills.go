package industry

// ReferenceSkills lists the reference skills per industry used to seed an
// empty skills table.
var ReferenceSkills = map[string][]string{
	"Information Technology": {
		"Python", "Java", "SQL", "Problem Solving", "Cybersecurity", "Data Analysis",
		"Network Configuration", "Machine Learning", "Cloud Computing", "Software Development",
		"Database Management", "Technical Support",
	},
	"Engineering": {
		"CAD Software", "Project Management", "Mathematics", "Design Thinking", "Analytical Skills",
		"Quality Control", "Mechanical Design", "Electrical Systems", "Civil Engineering",
		"Thermodynamics", "Structural Analysis", "Automation",
	},
	"Finance": {
		"Financial Analysis", "Accounting Principles", "Data Analysis", "Attention to Detail",
		"Risk Management", "Budgeting", "Financial Forecasting", "Compliance", "Investment Analysis",
		"Tax Planning", "Financial Reporting",
	},
	"Healthcare": {
		"Patient Care", "Medical Knowledge", "Attention to Detail", "Communication",
		"Problem Solving", "Clinical Procedures", "Medical Documentation", "Emergency Response",
		"Diagnostic Skills", "Patient Assessment", "Health Education",
	},
	"Logistics": {
		"Inventory Management", "Supply Chain Optimization", "Data Entry", "Attention to Detail",
		"Project Management", "Freight Management", "Vendor Relations", "Order Processing",
		"Logistics Coordination", "Forecasting Demand", "Warehouse Operations",
	},
	"General": {
		"Communication", "Time Management", "Teamwork", "Critical Thinking", "Adaptability",
		"Microsoft Office", "Organizational Skills", "Research", "Customer Service", "Basic Accounting",
		"Scheduling", "Resource Management",
	},
}
