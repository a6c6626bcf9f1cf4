package report

// Financial columns, in output order.
const (
	ColItem                 = "Item"
	ColService              = "Serviço"
	ColMaterial             = "Material (R$)"
	ColLabor                = "Labor (R$)"
	ColTotal                = "Total (R$)"
	ColWeight               = "Peso (%)"
	ColScheduledAccValue    = "Previsto acumulado (R$)"
	ColScheduledAccPct      = "Previsto acumulado (%)"
	ColScheduledPeriodValue = "Previsto no período (R$)"
	ColScheduledPeriodPct   = "Previsto no período (%)"
	ColExecutedAccValue     = "Executado acumulado (R$)"
	ColExecutedAccPct       = "Executado acumulado (%)"
	ColExecutedPeriodValue  = "Executado no período (R$)"
	ColExecutedPeriodPct    = "Executado no período (%)"
	ColBalanceValue         = "Saldo (R$)"
	ColBalancePct           = "Saldo (%)"
	ColVarianceValue        = "Atraso/Adiantamento (R$)"
	ColVariancePct          = "Atraso/Adiantamento (%)"
)

// Identity columns prepended in monthly mode.
const (
	ColProject          = "Obra"
	ColCity             = "Cidade"
	ColState            = "Estado"
	ColConstructionType = "Tipo de obra"
	ColMeasurement      = "Medição"
	ColMonth            = "Mês"
	ColDate             = "Data"
)

// TotalLabel is the service name of the totals row.
const TotalLabel = "Total"

// dateLayout renders the first day of a month column.
const dateLayout = "02/01/2006"

func financialColumns() []string {
	return []string{
		ColItem, ColService, ColMaterial, ColLabor, ColTotal, ColWeight,
		ColScheduledAccValue, ColScheduledAccPct,
		ColScheduledPeriodValue, ColScheduledPeriodPct,
		ColExecutedAccValue, ColExecutedAccPct,
		ColExecutedPeriodValue, ColExecutedPeriodPct,
		ColBalanceValue, ColBalancePct,
		ColVarianceValue, ColVariancePct,
	}
}

// SingleHeader is the header of a single reference month report.
func SingleHeader() []string {
	return financialColumns()
}

// MonthlyHeader is the header of the monthly measurements report.
func MonthlyHeader() []string {
	identity := []string{
		ColProject, ColCity, ColState, ColConstructionType,
		ColMeasurement, ColMonth, ColDate,
	}
	return append(identity, financialColumns()...)
}
