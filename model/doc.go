/*
Package model provides the rating domain and hyper-parameters shared by rating predictors.

	* model/baseline: constant, global mean, item mean, user mean and item-user mean predictors
	* model/slopeone: Slope One deviations and the (weighted) Slope One predictor
*/
package model
