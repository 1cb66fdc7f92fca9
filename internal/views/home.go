package views

import "creditrisk/internal/display"

// Home lists the available sections.
func Home() *display.Page {
	return display.NewPage(NameHome, "Credit Risk Management System").
		Heading(2, "Welcome to the Credit Risk Management System").
		Text("This system helps you predict credit risk, segment customers, detect anomalies, and more.").
		Heading(3, "Features").
		List(
			"Credit Risk Prediction: predict whether a customer is a good or bad credit risk.",
			"Customer Segmentation: group customers into clusters based on credit behavior.",
			"Anomaly Detection: identify unusual or fraudulent loan applications.",
			"Fairness Analysis: analyze potential biases across customer groups.",
			"Loan Recommendations: suggest loan products based on customer profiles.",
			"Dashboard: visualize key insights and distributions.",
			"Personal Finance Advisor: get personalized financial advice.",
		)
}
