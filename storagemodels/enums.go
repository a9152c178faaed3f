/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"slices"
)

// CountryCode is an ISO 3166-1 alpha-2 country code.
type CountryCode string

const (
	CountryUS CountryCode = "US"
	CountryRU CountryCode = "RU"
	CountryGB CountryCode = "GB"
	CountryDE CountryCode = "DE"
	CountryJP CountryCode = "JP"
	CountryCN CountryCode = "CN"
	CountryHK CountryCode = "HK"
	CountrySG CountryCode = "SG"
	CountryCH CountryCode = "CH"
	CountryCA CountryCode = "CA"
)

// InstrumentType classifies an instrument.
type InstrumentType string

const (
	InstrumentStock     InstrumentType = "Stock"
	InstrumentFuture    InstrumentType = "Future"
	InstrumentOption    InstrumentType = "Option"
	InstrumentIndex     InstrumentType = "Index"
	InstrumentCurrency  InstrumentType = "Currency"
	InstrumentBond      InstrumentType = "Bond"
	InstrumentWarrant   InstrumentType = "Warrant"
	InstrumentForward   InstrumentType = "Forward"
	InstrumentSwap      InstrumentType = "Swap"
	InstrumentCommodity InstrumentType = "Commodity"
	InstrumentCfd       InstrumentType = "Cfd"
	InstrumentEtf       InstrumentType = "Etf"
	InstrumentFund      InstrumentType = "Fund"
	InstrumentCrypto    InstrumentType = "CryptoCurrency"
)

// OptionType is the side of an option contract.
type OptionType string

const (
	OptionCall OptionType = "Call"
	OptionPut  OptionType = "Put"
)

// CurrencyType is an ISO 4217 currency code.
type CurrencyType string

const (
	CurrencyUSD  CurrencyType = "USD"
	CurrencyEUR  CurrencyType = "EUR"
	CurrencyRUB  CurrencyType = "RUB"
	CurrencyGBP  CurrencyType = "GBP"
	CurrencyJPY  CurrencyType = "JPY"
	CurrencyCNY  CurrencyType = "CNY"
	CurrencyCHF  CurrencyType = "CHF"
	CurrencyHKD  CurrencyType = "HKD"
	CurrencyBTC  CurrencyType = "BTC"
	CurrencyUSDT CurrencyType = "USDT"
)

// PortfolioState is the trading state of a portfolio.
type PortfolioState string

const (
	PortfolioActive  PortfolioState = "Active"
	PortfolioBlocked PortfolioState = "Blocked"
)

// LimitType is the settlement horizon of a position limit.
type LimitType string

const (
	LimitT0 LimitType = "T0"
	LimitT1 LimitType = "T1"
	LimitT2 LimitType = "T2"
	LimitTx LimitType = "Tx"
)

var (
	countryCodes = []CountryCode{
		CountryUS, CountryRU, CountryGB, CountryDE, CountryJP,
		CountryCN, CountryHK, CountrySG, CountryCH, CountryCA,
	}
	instrumentTypes = []InstrumentType{
		InstrumentStock, InstrumentFuture, InstrumentOption, InstrumentIndex,
		InstrumentCurrency, InstrumentBond, InstrumentWarrant, InstrumentForward,
		InstrumentSwap, InstrumentCommodity, InstrumentCfd, InstrumentEtf,
		InstrumentFund, InstrumentCrypto,
	}
	optionTypes     = []OptionType{OptionCall, OptionPut}
	currencyTypes   = []CurrencyType{CurrencyUSD, CurrencyEUR, CurrencyRUB, CurrencyGBP, CurrencyJPY, CurrencyCNY, CurrencyCHF, CurrencyHKD, CurrencyBTC, CurrencyUSDT}
	portfolioStates = []PortfolioState{PortfolioActive, PortfolioBlocked}
	limitTypes      = []LimitType{LimitT0, LimitT1, LimitT2, LimitTx}
)

func parseEnum[E ~string](kind, s string, known []E) (E, error) {
	v := E(s)
	if !slices.Contains(known, v) {
		return "", fmt.Errorf("unknown %s %q", kind, s)
	}
	return v, nil
}

// ParseCountryCode validates s against the known country codes.
func ParseCountryCode(s string) (CountryCode, error) {
	return parseEnum("country code", s, countryCodes)
}

// ParseInstrumentType validates s against the known instrument types.
func ParseInstrumentType(s string) (InstrumentType, error) {
	return parseEnum("instrument type", s, instrumentTypes)
}

// ParseOptionType validates s against the known option types.
func ParseOptionType(s string) (OptionType, error) {
	return parseEnum("option type", s, optionTypes)
}

// ParseCurrencyType validates s against the known currencies.
func ParseCurrencyType(s string) (CurrencyType, error) {
	return parseEnum("currency", s, currencyTypes)
}

// ParsePortfolioState validates s against the known portfolio states.
func ParsePortfolioState(s string) (PortfolioState, error) {
	return parseEnum("portfolio state", s, portfolioStates)
}

// ParseLimitType validates s against the known limit types.
func ParseLimitType(s string) (LimitType, error) {
	return parseEnum("limit type", s, limitTypes)
}
